package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("DATA_GO_KR_BASE_URL=http://127.0.0.1:1\n"), 0o600))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--env-file", envFile}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestTriageCmd(t *testing.T) {
	out, err := runCmd(t, "triage", "아이가", "경련을", "해요")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "RED", got["triage_level"])
}

func TestLookupPharmacyCmd_RejectsBadNow(t *testing.T) {
	_, err := runCmd(t, "lookup", "pharmacy", "--q0", "서울특별시", "--q1", "종로구", "--names", "종로약국", "--now", "9am")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "now must be 4-digit HHMM string")
}

func TestLookupNearbyCmd_RejectsRadius(t *testing.T) {
	_, err := runCmd(t, "lookup", "emergency", "--lat", "37.5", "--lng", "127", "--q0", "서울특별시", "--radius-km", "60")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "radius-km must be between 0 and 50")
}

func TestLookupNearbyCmd_RequiresCredential(t *testing.T) {
	t.Setenv("DATA_GO_KR_SERVICE_KEY", "")
	t.Setenv("DATAGOKR_API_KEY", "")
	_, err := runCmd(t, "lookup", "hospitals", "--lat", "37.5", "--lng", "127", "--q0", "서울특별시")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATA_GO_KR_SERVICE_KEY is not set")
}

func TestVoiceTurnCmd_FallsBack(t *testing.T) {
	out, err := runCmd(t, "voice-turn", "--lat", "37.57", "--lng", "126.98", "기침이", "나요")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "AMBER", got["triage_level"])
	assert.NotEmpty(t, got["top5_places"])
}
