package file_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/DMarby/image-pipeline/internal/storage"
	"github.com/DMarby/image-pipeline/internal/storage/file"
)

func TestFile(t *testing.T) {
	dir := t.TempDir()
	fixtures := map[string][]byte{
		"1.jpg":  []byte("jpeg data"),
		"2.png":  []byte("png data"),
		"3.webp": []byte("shadowed webp data"),
		"3.png":  []byte("png data for 3"),
	}
	for name, data := range fixtures {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	provider, err := file.New(dir)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		ID       string
		Expected []byte
	}{
		{"1", fixtures["1.jpg"]},
		{"2", fixtures["2.png"]},
		{"3", fixtures["3.png"]},
	}

	for _, test := range tests {
		buf, err := provider.Get(context.Background(), test.ID)
		if err != nil {
			t.Errorf("%s: %s", test.ID, err)
			continue
		}

		if !reflect.DeepEqual(buf, test.Expected) {
			t.Errorf("%s: image data doesn't match", test.ID)
		}
	}

	t.Run("Returns error on a nonexistant path", func(t *testing.T) {
		_, err := file.New("")
		if err == nil {
			t.FailNow()
		}
	})

	t.Run("Returns error on a file path", func(t *testing.T) {
		_, err := file.New(filepath.Join(dir, "1.jpg"))
		if err == nil {
			t.FailNow()
		}
	})

	t.Run("Returns error on a nonexistant image", func(t *testing.T) {
		_, err := provider.Get(context.Background(), "nonexistant")
		if err != storage.ErrNotFound {
			t.Fatalf("wrong error %v", err)
		}
	})

	t.Run("Rejects paths", func(t *testing.T) {
		for _, id := range []string{"../1", "a/1", ".hidden", ""} {
			if _, err := provider.Get(context.Background(), id); err != storage.ErrNotFound {
				t.Errorf("%q: wrong error %v", id, err)
			}
		}
	})

	t.Run("Returns error on a cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := provider.Get(ctx, "1"); err != context.Canceled {
			t.Fatalf("wrong error %v", err)
		}
	})
}
