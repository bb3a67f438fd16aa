package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"distbuild/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeOperations(t *testing.T) {
	tests := []struct {
		old, new, want Operation
	}{
		{OperationCreate, OperationUpdate, OperationCreate},
		{OperationCreate, OperationDelete, OperationDelete},
		{OperationUpdate, OperationUpdate, OperationUpdate},
		{OperationUpdate, OperationDelete, OperationDelete},
		{OperationDelete, OperationCreate, OperationCreate},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mergeOperations(tt.old, tt.new), "%s then %s", tt.old, tt.new)
	}
}

func TestParseFilePath(t *testing.T) {
	base := filepath.Join("/", "store")
	d := NewDetector(base, 0, config.KindProjects, config.KindTasks)

	tests := []struct {
		path     string
		wantKind string
		wantName string
	}{
		{filepath.Join(base, "projects", "engine.yaml"), config.KindProjects, "engine"},
		{filepath.Join(base, "tasks", "unit.yml"), config.KindTasks, "unit"},
		{filepath.Join(base, "platforms", "el7.yaml"), "", ""},
		{filepath.Join(base, "projects", "nested", "x.yaml"), "", ""},
		{filepath.Join(base, "config.yaml"), "", ""},
		{filepath.Join("/", "elsewhere", "projects", "x.yaml"), "", ""},
	}
	for _, tt := range tests {
		kind, name := d.parseFilePath(tt.path)
		assert.Equal(t, tt.wantKind, kind, tt.path)
		assert.Equal(t, tt.wantName, name, tt.path)
	}
}

func TestChangeKinds(t *testing.T) {
	c := Change{Events: []Event{
		{Kind: "projects", Name: "a"},
		{Kind: "projects", Name: "b"},
		{Kind: "tasks", Name: "unit"},
	}}
	assert.Equal(t, []string{"projects", "tasks"}, c.Kinds())
}

func TestDetector_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	d := NewDetector(dir, 50*time.Millisecond, config.KindProjects, config.KindTasks)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Change, 4)
	require.NoError(t, d.Start(ctx, changes))
	defer d.Stop()

	// Start creates the watched directories.
	require.DirExists(t, filepath.Join(dir, config.KindProjects))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects", "engine.yaml"), []byte("id: engine\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects", "engine.yaml"), []byte("id: engine\nproduct: core\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks", "unit.yaml"), []byte("id: unit\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks", "notes.txt"), []byte("ignored"), 0644))

	select {
	case change := <-changes:
		require.Len(t, change.Events, 2)
		assert.Equal(t, "engine", change.Events[0].Name)
		assert.Equal(t, OperationCreate, change.Events[0].Operation)
		assert.Equal(t, "unit", change.Events[1].Name)
		assert.Equal(t, []string{config.KindProjects, config.KindTasks}, change.Kinds())
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestDetector_StopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	d := NewDetector(dir, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan Change, 1)
	require.NoError(t, d.Start(ctx, changes))
	// A second start is a no-op.
	require.NoError(t, d.Start(ctx, changes))

	cancel()
	assert.Eventually(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return !d.running
	}, 2*time.Second, 10*time.Millisecond)

	// Stopping twice is harmless.
	d.Stop()
}
