package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vk/fitconf/internal/app"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	// Output holds everything the app wrote, logs included.
	Output string
	Err    error
	App    *app.App
}

// RunIntegrationTest writes files into a fresh workspace, points the app at
// configName inside it and runs it once with debug logging. The loader is
// picked from the extension of configName.
func RunIntegrationTest(t *testing.T, files map[string]string, configName string, samples int) *HarnessResult {
	t.Helper()

	root := WriteFiles(t, files)
	cfg, err := app.NewConfig(app.Config{
		ConfigPath: filepath.Join(root, configName),
		LogLevel:   "debug",
		LogFormat:  "text",
		Samples:    samples,
		Seed:       42,
	})
	if err != nil {
		return &HarnessResult{Err: err}
	}

	out := &SafeBuffer{}
	testApp, err := app.NewApp(out, cfg, nil)
	if err == nil {
		err = testApp.Run(context.Background())
	}

	if os.Getenv("FITCONF_TEST_LOGS") == "true" {
		t.Logf("--- Full Output for %s ---\n%s", t.Name(), out.String())
	}
	return &HarnessResult{Output: out.String(), Err: err, App: testApp}
}
