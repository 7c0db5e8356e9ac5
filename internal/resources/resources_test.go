package resources

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
)

func TestLogBufferAppendOrder(t *testing.T) {
	buf := NewLogBuffer()

	buf.Append("log", "first")
	buf.Append("error", "second")
	buf.Append("log", "third")

	entries := buf.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Text != "first" || entries[1].Text != "second" || entries[2].Text != "third" {
		t.Errorf("entries out of arrival order: %+v", entries)
	}
}

func TestLogBufferSnapshot(t *testing.T) {
	buf := NewLogBuffer()
	buf.Append("log", "hi")
	buf.Append("error", "boom")

	want := "[log] hi\n[error] boom\n"
	if got := buf.Snapshot(); got != want {
		t.Errorf("Snapshot() = %q, want %q", got, want)
	}
}

func TestLogBufferConcurrentAppend(t *testing.T) {
	buf := NewLogBuffer()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			buf.Append("log", fmt.Sprintf("msg-%d", n))
		}(i)
	}
	wg.Wait()

	if buf.Len() != 50 {
		t.Errorf("expected 50 entries, got %d", buf.Len())
	}
}

func TestArtifactStoreOverwrite(t *testing.T) {
	store := NewArtifactStore()

	if created := store.Put("a", []byte("one")); !created {
		t.Error("first Put should report a new name")
	}
	if created := store.Put("a", []byte("two")); created {
		t.Error("second Put of the same name should not report a new name")
	}

	if store.Len() != 1 {
		t.Fatalf("expected 1 artifact, got %d", store.Len())
	}

	payload, ok := store.Get("a")
	if !ok {
		t.Fatal("artifact a not found")
	}
	if !bytes.Equal(payload, []byte("two")) {
		t.Errorf("expected last write to win, got %q", payload)
	}
}

func TestArtifactStoreNamesSorted(t *testing.T) {
	store := NewArtifactStore()
	store.Put("zebra", nil)
	store.Put("apple", nil)
	store.Put("mango", nil)

	names := store.Names()
	want := []string{"apple", "mango", "zebra"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestArtifactURIRoundTrip(t *testing.T) {
	uri := ArtifactURI("shot")
	if uri != "artifact://shot" {
		t.Errorf("ArtifactURI = %q", uri)
	}

	name, ok := ArtifactName(uri)
	if !ok || name != "shot" {
		t.Errorf("ArtifactName(%q) = %q, %v", uri, name, ok)
	}
}

func TestArtifactNameRejectsOtherSchemes(t *testing.T) {
	for _, uri := range []string{LogsURI, "artifact://", "http://x", "shot"} {
		if _, ok := ArtifactName(uri); ok {
			t.Errorf("ArtifactName(%q) should not resolve", uri)
		}
	}
}
