package bookmarkmatch

import "testing"

func TestDuplicatesFlagsIdenticalTitles(t *testing.T) {
	candidates := []Candidate{
		linkCandidate("a", "https://x.example/1", "Understanding Distributed Consensus"),
		linkCandidate("b", "https://x.example/2", "Understanding Distributed Consensus"),
		linkCandidate("c", "https://x.example/3", "Gardening for Beginners"),
	}

	pairs, err := Duplicates(candidates, 0)
	if err != nil {
		t.Fatalf("Duplicates: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1: %+v", len(pairs), pairs)
	}
	if pairs[0].A.ID != "a" || pairs[0].B.ID != "b" {
		t.Errorf("pair = %s/%s, want a/b", pairs[0].A.ID, pairs[0].B.ID)
	}
	if pairs[0].Similarity != 1.0 {
		t.Errorf("similarity = %v, want 1.0", pairs[0].Similarity)
	}
}

func TestDuplicatesClearsDissimilarTitles(t *testing.T) {
	candidates := []Candidate{
		linkCandidate("a", "https://x.example/1", "Understanding Distributed Consensus"),
		linkCandidate("b", "https://x.example/2", "Sourdough Starter Maintenance"),
	}
	pairs, err := Duplicates(candidates, 0)
	if err != nil {
		t.Fatalf("Duplicates: %v", err)
	}
	if len(pairs) != 0 {
		t.Errorf("got %d pairs, want 0: %+v", len(pairs), pairs)
	}
}

func TestDuplicatesSkipsUntitledCandidates(t *testing.T) {
	candidates := []Candidate{
		{ID: "untitled", Content: Content{Kind: ContentAsset, SourceURL: "https://s.example/a"}},
		linkCandidate("titled", "https://x.example/1", "A Real Title Here"),
	}
	pairs, err := Duplicates(candidates, 0)
	if err != nil {
		t.Fatalf("Duplicates: %v", err)
	}
	if len(pairs) != 0 {
		t.Errorf("got %d pairs, want 0", len(pairs))
	}
}

func TestDuplicatesRejectsBadThreshold(t *testing.T) {
	if _, err := Duplicates(nil, 2); err == nil {
		t.Error("Duplicates(threshold=2) should fail")
	}
}
