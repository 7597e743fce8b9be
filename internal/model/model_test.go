package model

import (
	"reflect"
	"testing"
)

// TestStage tests stage validation and ordering.
func TestStage(t *testing.T) {
	t.Parallel()

	t.Run("known stages are valid", func(t *testing.T) {
		t.Parallel()

		for _, s := range Stages() {
			if !s.Valid() {
				t.Errorf("expected %q to be valid", s)
			}
		}
	})

	t.Run("unknown stage is invalid", func(t *testing.T) {
		t.Parallel()

		if Stage("director").Valid() {
			t.Error("expected unknown stage to be invalid")
		}
		if Stage("").Valid() {
			t.Error("expected empty stage to be invalid")
		}
	})

	t.Run("stages are in traversal order", func(t *testing.T) {
		t.Parallel()

		want := []Stage{StageTitle, StageCredits, StagePerformer}
		if got := Stages(); !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})
}

// TestNewSeed tests seed task creation.
func TestNewSeed(t *testing.T) {
	t.Parallel()

	task := NewSeed("https://www.imdb.com/title/tt0106145/")
	if task.Stage != StageTitle {
		t.Errorf("expected stage %q, got %q", StageTitle, task.Stage)
	}
	if task.Referer != "" {
		t.Errorf("expected empty referer, got %q", task.Referer)
	}
	if got := task.String(); got != "title https://www.imdb.com/title/tt0106145/" {
		t.Errorf("unexpected string form %q", got)
	}
}

// TestAssociationRow tests the column layout shared by all sinks.
func TestAssociationRow(t *testing.T) {
	t.Parallel()

	if got := Header(); !reflect.DeepEqual(got, []string{"actor", "movie_or_TV_name"}) {
		t.Errorf("unexpected header %v", got)
	}

	a := Association{Actor: "Jane Doe", MovieOrTVName: "Film A"}
	if got := a.Row(); !reflect.DeepEqual(got, []string{"Jane Doe", "Film A"}) {
		t.Errorf("unexpected row %v", got)
	}
}

// TestPerformerAssociations tests expansion of a performer into records.
func TestPerformerAssociations(t *testing.T) {
	t.Parallel()

	t.Run("one record per work in order", func(t *testing.T) {
		t.Parallel()

		p := Performer{Name: "Jane Doe", Works: []string{"Film A", "Film B"}}
		want := []Association{
			{Actor: "Jane Doe", MovieOrTVName: "Film A"},
			{Actor: "Jane Doe", MovieOrTVName: "Film B"},
		}
		if got := p.Associations(); !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("no works yields no records", func(t *testing.T) {
		t.Parallel()

		p := Performer{Name: "Jane Doe"}
		if got := p.Associations(); len(got) != 0 {
			t.Errorf("expected no records, got %v", got)
		}
	})
}
