package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSelfUpdate_DevelopmentBuild(t *testing.T) {
	for _, v := range []string{"", "dev"} {
		t.Run("version "+v, func(t *testing.T) {
			withVersion(t, v)

			err := runSelfUpdate(nil, nil)
			assert.ErrorIs(t, err, errDevelopmentVersion)
		})
	}
}

func TestSelfUpdateCmd(t *testing.T) {
	cmd := newSelfUpdateCmd()
	assert.Equal(t, "self-update", cmd.Use)
	assert.Equal(t, "ShayHill/todoist-bot", githubRepoSlug)

	out, err := executeCommand(t, cmd, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "latest release of todoist-bot")
	assert.Contains(t, out, "--check")

	_, err = executeCommand(t, newSelfUpdateCmd(), "extra")
	assert.Error(t, err, "self-update takes no arguments")
}
