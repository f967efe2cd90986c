package rarextract_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Defacto2/helper"
	"github.com/Defacto2/rarextract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// request returns an archive path and an existing destination directory.
func request(t *testing.T) (string, string) {
	t.Helper()
	tmp := t.TempDir()
	dst := filepath.Join(tmp, "GAME")
	require.NoError(t, os.Mkdir(dst, 0o755))
	return filepath.Join(tmp, "GAME.RAR"), dst
}

func TestExtractor_NotFound(t *testing.T) {
	t.Parallel()
	src, dst := request(t)
	f := &finder{err: rarextract.ErrNotFound}
	called := false
	err := rarextract.Extractor{
		Source: src, Destination: dst, Finder: f,
	}.Extract(func(string) {
		called = true
	})
	require.ErrorIs(t, err, rarextract.ErrNotFound)
	assert.Equal(t, 1, f.calls)
	assert.False(t, called)
	assert.Contains(t, rarextract.Message(err), "brew install unrar")
	n, cerr := helper.Count(dst)
	require.NoError(t, cerr)
	assert.Zero(t, n)
}

func TestExtractor_EmptyPaths(t *testing.T) {
	t.Parallel()
	f := &finder{path: "/bin/true"}
	err := rarextract.Extractor{Destination: "/tmp", Finder: f}.Extract(nil)
	require.ErrorIs(t, err, rarextract.ErrSource)
	err = rarextract.Extractor{Source: "/tmp/GAME.RAR", Finder: f}.Extract(nil)
	require.ErrorIs(t, err, rarextract.ErrDest)
	assert.Equal(t, 2, f.calls)

	// a missing unrar is reported before the empty paths
	err = rarextract.Extractor{Finder: &finder{err: rarextract.ErrNotFound}}.Extract(nil)
	require.ErrorIs(t, err, rarextract.ErrNotFound)
	assert.NotErrorIs(t, err, rarextract.ErrSource)
}

func TestExtractor_ProgressOrder(t *testing.T) {
	src, dst := request(t)
	prog := stub(t, t.TempDir(), "unrar",
		"printf '10%%'\nsleep 0.2\nprintf '55%%'\nsleep 0.2\nprintf '100%%'\nexit 0")

	var chunks []string
	err := rarextract.Extractor{
		Source: src, Destination: dst, Finder: &finder{path: prog},
	}.Extract(func(s string) {
		chunks = append(chunks, s)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"10%", "55%", "100%"}, chunks)
}

func TestExtractor_Args(t *testing.T) {
	src, dst := request(t)
	tmp := t.TempDir()
	args := filepath.Join(tmp, "args")
	prog := stub(t, tmp, "unrar", `printf '%s\n' "$@" > `+args)

	err := rarextract.Extractor{
		Source: src, Destination: dst, Finder: &finder{path: prog},
	}.Extract(nil)
	require.NoError(t, err)
	b, err := os.ReadFile(args)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "-y", src, dst}, strings.Fields(string(b)))
}

func TestExtractor_MergedOutput(t *testing.T) {
	src, dst := request(t)
	prog := stub(t, t.TempDir(), "unrar",
		"echo 'Extracting from GAME.RAR'\nsleep 0.1\necho 'No files to extract' 1>&2\nsleep 0.1\necho 'All OK'")

	var b strings.Builder
	err := rarextract.Extractor{
		Source: src, Destination: dst, Finder: &finder{path: prog},
	}.Extract(func(s string) {
		b.WriteString(s)
	})
	require.NoError(t, err)
	assert.Equal(t, "Extracting from GAME.RAR\nNo files to extract\nAll OK\n", b.String())
}

func TestExtractor_ExitCode(t *testing.T) {
	src, dst := request(t)
	prog := stub(t, t.TempDir(), "unrar", "echo 'ERROR: Unexpected end of archive'\nexit 2")

	var chunks []string
	err := rarextract.Extractor{
		Source: src, Destination: dst, Finder: &finder{path: prog},
	}.Extract(func(s string) {
		chunks = append(chunks, s)
	})
	require.ErrorIs(t, err, rarextract.ErrExit)
	var exit *rarextract.ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 2, exit.Code)
	assert.Equal(t, "ERROR: Unexpected end of archive\n", strings.Join(chunks, ""))
	assert.Equal(t, "Extraction failed: process exited with code 2", rarextract.Message(err))
}

func TestExtractor_PartialFilesRemain(t *testing.T) {
	src, dst := request(t)
	prog := stub(t, t.TempDir(), "unrar", `echo partial > "$4/FILE1.TXT"`+"\nexit 3")

	err := rarextract.Extractor{
		Source: src, Destination: dst, Finder: &finder{path: prog},
	}.Extract(nil)
	var exit *rarextract.ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 3, exit.Code)
	assert.FileExists(t, filepath.Join(dst, "FILE1.TXT"))
}

func TestExtractor_Spawn(t *testing.T) {
	src, dst := request(t)
	prog := filepath.Join(t.TempDir(), "unrar")
	require.NoError(t, helper.Touch(prog))

	done := make(chan error, 1)
	go func() {
		done <- rarextract.Extractor{
			Source: src, Destination: dst, Finder: &finder{path: prog},
		}.Extract(nil)
	}()
	select {
	case err := <-done:
		require.ErrorIs(t, err, rarextract.ErrSpawn)
		var spawn *rarextract.SpawnError
		require.ErrorAs(t, err, &spawn)
		assert.Equal(t, prog, spawn.Path)
		require.ErrorIs(t, err, os.ErrPermission)
		assert.True(t, strings.HasPrefix(rarextract.Message(err), "Extraction failed: "))
	case <-time.After(10 * time.Second):
		t.Fatal("extract did not return for a program that cannot be started")
	}
}

func TestExtractor_Idempotent(t *testing.T) {
	src, dst := request(t)
	prog := stub(t, t.TempDir(), "unrar", "echo 'All OK'")
	f := &finder{path: prog}
	x := rarextract.Extractor{Source: src, Destination: dst, Finder: f}

	for range 2 {
		var b strings.Builder
		err := x.Extract(func(s string) {
			b.WriteString(s)
		})
		require.NoError(t, err)
		assert.Equal(t, "All OK\n", b.String())
	}
	assert.Equal(t, 2, f.calls, "the program should be located on every call")
}

func TestExtractor_SplitCharacter(t *testing.T) {
	src, dst := request(t)
	// é is 0xC3 0xA9, written in two parts
	prog := stub(t, t.TempDir(), "unrar", `printf '\303'`+"\nsleep 0.2\n"+`printf '\251\n'`)

	var chunks []string
	err := rarextract.Extractor{
		Source: src, Destination: dst, Finder: &finder{path: prog},
	}.Extract(func(s string) {
		chunks = append(chunks, s)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"é\n"}, chunks)
}

func TestExtractor_InvalidText(t *testing.T) {
	src, dst := request(t)
	prog := stub(t, t.TempDir(), "unrar", `printf 'CP437 \202\n'`)

	var b strings.Builder
	err := rarextract.Extractor{
		Source: src, Destination: dst, Finder: &finder{path: prog},
	}.Extract(func(s string) {
		b.WriteString(s)
	})
	require.NoError(t, err)
	assert.Equal(t, "CP437 �\n", b.String())
}

func TestExtractor_Cancel(t *testing.T) {
	src, dst := request(t)
	prog := stub(t, t.TempDir(), "unrar", "echo started\nexec sleep 10")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := rarextract.Extractor{
		Source: src, Destination: dst, Finder: &finder{path: prog},
	}.ExtractContext(ctx, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExtractor_CancelChildren(t *testing.T) {
	src, dst := request(t)
	prog := stub(t, t.TempDir(), "unrar", "echo started\nsleep 3\necho done")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := rarextract.Extractor{
		Source: src, Destination: dst, Finder: &finder{path: prog},
	}.ExtractContext(ctx, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestExtractor_Signal(t *testing.T) {
	src, dst := request(t)
	prog := stub(t, t.TempDir(), "unrar", "kill -TERM $$")

	err := rarextract.Extractor{
		Source: src, Destination: dst, Finder: &finder{path: prog},
	}.Extract(nil)
	var exit *rarextract.ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, -1, exit.Code)
	assert.Equal(t, "terminated", exit.Signal)
	assert.Equal(t, "Extraction failed: process was terminated by signal terminated",
		rarextract.Message(err))
}
