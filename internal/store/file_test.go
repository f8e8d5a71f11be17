package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"soundshelf/shared/go/models"
)

func TestFilePersisterSaveKeepsMode(t *testing.T) {
	tests := []struct {
		name     string
		existing os.FileMode
		want     os.FileMode
	}{
		{name: "new file", want: 0o644},
		{name: "group readable", existing: 0o640, want: 0o640},
		{name: "world readable", existing: 0o644, want: 0o644},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "database.json")
			if tt.existing != 0 {
				if err := os.WriteFile(path, []byte(`{}`), tt.existing); err != nil {
					t.Fatalf("write: %v", err)
				}
				if err := os.Chmod(path, tt.existing); err != nil {
					t.Fatalf("chmod: %v", err)
				}
			}

			p := NewFilePersister(path)
			snap := &models.Snapshot{}
			snap.Normalize()
			if err := p.Save(context.Background(), snap); err != nil {
				t.Fatalf("Save: %v", err)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stat: %v", err)
			}
			if info.Mode().Perm() != tt.want {
				t.Fatalf("expected mode %v, got %v", tt.want, info.Mode().Perm())
			}
			if _, err := p.Load(context.Background()); err != nil {
				t.Fatalf("Load after Save: %v", err)
			}

			leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
			if len(leftovers) != 0 {
				t.Fatalf("temp files left behind: %v", leftovers)
			}
		})
	}
}
