package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_Text(t *testing.T) {
	db := testDB(t)

	out, err := runCLI(t, "--db", db, "add", "a.wav", "--path", "/r/a.wav", "--length", "1000")
	require.NoError(t, err)
	assert.Equal(t, "Added recording #1 a.wav\n", out)

	out, err = runCLI(t, "--db", db, "add", "b.wav", "--path", "/r/b.wav")
	require.NoError(t, err)
	assert.Equal(t, "Added recording #2 b.wav\n", out)
}

func TestAdd_JSON(t *testing.T) {
	db := testDB(t)

	out, err := runCLI(t, "--db", db, "--format", "json", "add", "a.wav", "--path", "/r/a.wav")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			ID   int64  `json:"id"`
			Path string `json:"path"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, int64(1), resp.Data.ID)
	assert.Equal(t, "/r/a.wav", resp.Data.Path)
}

func TestAdd_GeneratedPath(t *testing.T) {
	db := testDB(t)
	dir := t.TempDir()

	out, err := runCLI(t, "--db", db, "--format", "json", "add", "memo.mp4", "--dir", dir)
	require.NoError(t, err)

	var resp struct {
		Data struct {
			Path string `json:"path"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, dir, filepath.Dir(resp.Data.Path))
	assert.True(t, strings.HasSuffix(resp.Data.Path, ".mp4"))
}

func TestAdd_NegativeLength(t *testing.T) {
	_, err := runCLI(t, "--db", testDB(t), "add", "a.wav", "--length", "-5")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestAdd_MissingName(t *testing.T) {
	_, err := runCLI(t, "--db", testDB(t), "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestList_Empty(t *testing.T) {
	out, err := runCLI(t, "--db", testDB(t), "list")
	require.NoError(t, err)
	assert.Equal(t, "No recordings.\n", out)
}

func TestList_TextGolden(t *testing.T) {
	db := testDB(t)
	_, err := runCLI(t, "--db", db, "add", "a.wav", "--path", "/r/a.wav", "--length", "1000")
	require.NoError(t, err)
	_, err = runCLI(t, "--db", db, "add", "b.wav", "--path", "/r/b.wav", "--length", "2000")
	require.NoError(t, err)

	out, err := runCLI(t, "--db", db, "list")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "list_text", []byte(out))
}

func TestList_JSON(t *testing.T) {
	db := testDB(t)
	_, err := runCLI(t, "--db", db, "add", "a.wav", "--path", "/r/a.wav", "--length", "1000")
	require.NoError(t, err)

	out, err := runCLI(t, "--db", db, "--format", "json", "list")
	require.NoError(t, err)

	var resp struct {
		Data []struct {
			ID          int64  `json:"id"`
			Name        string `json:"name"`
			CreatedTime int64  `json:"created_time"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "a.wav", resp.Data[0].Name)
	assert.Positive(t, resp.Data[0].CreatedTime)
}

func TestGet(t *testing.T) {
	db := testDB(t)
	_, err := runCLI(t, "--db", db, "add", "a.wav", "--path", "/r/a.wav", "--length", "1500")
	require.NoError(t, err)

	out, err := runCLI(t, "--db", db, "get", "0")
	require.NoError(t, err)
	assert.Equal(t, "#1 a.wav (1.5s) /r/a.wav\n", out)
}

func TestGet_NotFound(t *testing.T) {
	_, err := runCLI(t, "--db", testDB(t), "get", "0")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "recording not found")
}

func TestGet_NotFoundJSON(t *testing.T) {
	out, err := runCLI(t, "--db", testDB(t), "--format", "json", "get", "3")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
	assert.True(t, IsReported(err), "envelope already on stdout")
}

func TestGet_InvalidIndex(t *testing.T) {
	for _, arg := range []string{"abc", "-1"} {
		_, err := runCLI(t, "--db", testDB(t), "get", "--", arg)
		require.Error(t, err, arg)
		assert.Equal(t, ExitCommandError, GetExitCode(err), arg)
	}
}

func TestRemove_DeletesFile(t *testing.T) {
	db := testDB(t)
	audio := filepath.Join(t.TempDir(), "a.wav")
	require.NoError(t, os.WriteFile(audio, []byte("RIFF"), 0644))

	_, err := runCLI(t, "--db", db, "add", "a.wav", "--path", audio)
	require.NoError(t, err)

	out, err := runCLI(t, "--db", db, "rm", "0")
	require.NoError(t, err)
	assert.Equal(t, "Removed recording at index 0\n", out)

	_, err = os.Stat(audio)
	assert.True(t, os.IsNotExist(err))

	out, err = runCLI(t, "--db", db, "count")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestRemove_IndexOutOfRangeJSON(t *testing.T) {
	out, err := runCLI(t, "--db", testDB(t), "--format", "json", "rm", "2")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeIndex, resp.Error.Code)
}

func TestRename_DefaultPathKeepsDirectory(t *testing.T) {
	db := testDB(t)
	_, err := runCLI(t, "--db", db, "add", "a.wav", "--path", "/r/a.wav")
	require.NoError(t, err)

	out, err := runCLI(t, "--db", db, "rename", "0", "z.wav")
	require.NoError(t, err)
	assert.Equal(t, "Renamed recording #1 to z.wav\n", out)

	out, err = runCLI(t, "--db", db, "get", "0")
	require.NoError(t, err)
	assert.Equal(t, "#1 z.wav (0s) "+filepath.Join("/r", "z.wav")+"\n", out)
}

func TestRename_ExplicitPathJSON(t *testing.T) {
	db := testDB(t)
	_, err := runCLI(t, "--db", db, "add", "a.wav", "--path", "/r/a.wav")
	require.NoError(t, err)

	out, err := runCLI(t, "--db", db, "--format", "json", "rename", "0", "z.wav", "--path", "/s/z.wav")
	require.NoError(t, err)

	var resp struct {
		Data struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			Path string `json:"path"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, int64(1), resp.Data.ID)
	assert.Equal(t, "z.wav", resp.Data.Name)
	assert.Equal(t, "/s/z.wav", resp.Data.Path)
}

func TestRename_NotFound(t *testing.T) {
	_, err := runCLI(t, "--db", testDB(t), "rename", "0", "z.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recording not found")
}

func TestCount_JSON(t *testing.T) {
	db := testDB(t)
	_, err := runCLI(t, "--db", db, "add", "a.wav", "--path", "/r/a.wav")
	require.NoError(t, err)
	_, err = runCLI(t, "--db", db, "add", "b.wav", "--path", "/r/b.wav")
	require.NoError(t, err)

	out, err := runCLI(t, "--db", db, "--format", "json", "count")
	require.NoError(t, err)

	var resp struct {
		Data map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 2, resp.Data["count"])
}

func TestAddAndRename_NormalizeNameAtInput(t *testing.T) {
	db := testDB(t)

	out, err := runCLI(t, "--db", db, "add", " cafe\u0301.wav ", "--path", "/r/x.wav")
	require.NoError(t, err)
	assert.Equal(t, "Added recording #1 caf\u00e9.wav\n", out)

	out, err = runCLI(t, "--db", db, "get", "0")
	require.NoError(t, err)
	assert.Equal(t, "#1 caf\u00e9.wav (0s) /r/x.wav\n", out)

	_, err = runCLI(t, "--db", db, "rename", "0", "  cafe\u0301 2.wav")
	require.NoError(t, err)

	out, err = runCLI(t, "--db", db, "get", "0")
	require.NoError(t, err)
	assert.Equal(t, "#1 caf\u00e9 2.wav (0s) "+filepath.Join("/r", "caf\u00e9 2.wav")+"\n", out)
}

func TestErrorText_NotReported(t *testing.T) {
	out, err := runCLI(t, "--db", testDB(t), "rm", "0")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.False(t, IsReported(err), "text errors are printed by main")
}
