package similarity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kioku-dev/kioku/internal/models"
)

func record(id string, vec ...float32) *models.VectorRecord {
	return &models.VectorRecord{ID: id, Text: "text " + id, Vector: vec}
}

func TestRanker_Order(t *testing.T) {
	r := NewRanker(Cosine{})
	candidates := []*models.VectorRecord{
		record("v1", 1, 0),
		record("v2", 0, 1),
		record("v3", -1, 0),
	}
	results, err := r.Rank([]float32{1, 0}, candidates, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	wantOrder := []string{"v1", "v2", "v3"}
	wantScores := []float64{1.0, 0.0, -1.0}
	for i := range results {
		if results[i].Record.ID != wantOrder[i] {
			t.Errorf("rank %d = %s, want %s", i, results[i].Record.ID, wantOrder[i])
		}
		if results[i].Score != wantScores[i] {
			t.Errorf("rank %d score = %v, want %v", i, results[i].Score, wantScores[i])
		}
	}
}

func TestRanker_SelfSimilarityMax(t *testing.T) {
	r := NewRanker(Cosine{})
	target := []float32{0.3, 0.9, -0.2}
	candidates := []*models.VectorRecord{
		record("other1", 1, 0, 0),
		record("self", target...),
		record("other2", 0, -1, 1),
	}
	results, err := r.Rank(target, candidates, 3)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Record.ID != "self" {
		t.Errorf("top result = %s, want self", results[0].Record.ID)
	}
}

func TestRanker_TopKSizeLaw(t *testing.T) {
	r := NewRanker(Cosine{})
	var candidates []*models.VectorRecord
	for i := 0; i < 5; i++ {
		candidates = append(candidates, record(fmt.Sprintf("r%d", i), float32(i+1), 1))
	}
	for _, k := range []int{1, 3, 5, 10} {
		results, err := r.Rank([]float32{1, 0}, candidates, k)
		if err != nil {
			t.Fatal(err)
		}
		want := k
		if want > len(candidates) {
			want = len(candidates)
		}
		if len(results) != want {
			t.Errorf("k=%d: got %d results, want %d", k, len(results), want)
		}
		for i := 1; i < len(results); i++ {
			if results[i].Score > results[i-1].Score {
				t.Errorf("k=%d: results not non-increasing at %d", k, i)
			}
		}
	}
}

func TestRanker_TieStability(t *testing.T) {
	r := NewRanker(Cosine{})
	// All candidates are scaled copies of the same direction: identical scores.
	candidates := []*models.VectorRecord{
		record("first", 1, 1),
		record("second", 2, 2),
		record("third", 3, 3),
	}
	results, err := r.Rank([]float32{1, 1}, candidates, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"first", "second", "third"} {
		if results[i].Record.ID != want {
			t.Errorf("rank %d = %s, want %s (scan order must survive ties)", i, results[i].Record.ID, want)
		}
	}
}

func TestRanker_EmptyCandidates(t *testing.T) {
	r := NewRanker(Cosine{})
	results, err := r.Rank([]float32{1, 0}, nil, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestRanker_DegenerateQuery(t *testing.T) {
	r := NewRanker(Cosine{})
	_, err := r.Rank([]float32{0, 0}, []*models.VectorRecord{record("a", 1, 0)}, 1)
	if !errors.Is(err, ErrDegenerateVector) {
		t.Errorf("error = %v, want ErrDegenerateVector", err)
	}
	_, err = r.Rank(nil, []*models.VectorRecord{record("a", 1, 0)}, 1)
	if !errors.Is(err, ErrDegenerateVector) {
		t.Errorf("error = %v, want ErrDegenerateVector", err)
	}
}

func TestRanker_SkipsFaultedRecords(t *testing.T) {
	r := NewRanker(Cosine{})
	candidates := []*models.VectorRecord{
		record("good", 1, 0),
		record("wrong-dims", 1, 0, 0),
		record("zero-norm", 0, 0),
		record("also-good", 0, 1),
	}
	results, err := r.Rank([]float32{1, 0}, candidates, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results after skipping faulted records, got %d", len(results))
	}
	if results[0].Record.ID != "good" || results[1].Record.ID != "also-good" {
		t.Errorf("results = [%s, %s]", results[0].Record.ID, results[1].Record.ID)
	}
}

func TestRanker_ParallelMatchesSequential(t *testing.T) {
	r := NewRanker(Cosine{})
	query := []float32{0.5, -0.25, 1}
	n := parallelThreshold + 100
	candidates := make([]*models.VectorRecord, n)
	for i := range candidates {
		candidates[i] = record(fmt.Sprintf("r%d", i),
			float32(i%17)+0.1, float32(i%7)-3, float32(i%29)*0.3+0.01)
	}
	parallel, err := r.Rank(query, candidates, 25)
	if err != nil {
		t.Fatal(err)
	}
	sequential := make([]*models.SimilarityResult, 0, n)
	for _, rec := range candidates {
		if s := r.scoreOne(query, rec); s != nil {
			sequential = append(sequential, s)
		}
	}
	// Verify the parallel top result is the true maximum.
	maxScore := sequential[0].Score
	for _, s := range sequential {
		if s.Score > maxScore {
			maxScore = s.Score
		}
	}
	if parallel[0].Score != maxScore {
		t.Errorf("parallel top score %v != true max %v", parallel[0].Score, maxScore)
	}
	if len(parallel) != 25 {
		t.Errorf("len = %d, want 25", len(parallel))
	}
}

func TestRanker_DoesNotMutateCandidates(t *testing.T) {
	r := NewRanker(Cosine{})
	rec := record("a", 3, 4)
	before := []float32{rec.Vector[0], rec.Vector[1]}
	if _, err := r.Rank([]float32{1, 0}, []*models.VectorRecord{rec}, 1); err != nil {
		t.Fatal(err)
	}
	if rec.Vector[0] != before[0] || rec.Vector[1] != before[1] {
		t.Error("ranker mutated a candidate vector")
	}
}
