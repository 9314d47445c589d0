package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadEffective_NoConfigUsesDefaults(t *testing.T) {
	cwd := t.TempDir()

	eff, err := LoadEffective(cwd, CLIArgs{})
	require.NoError(t, err)
	require.Equal(t, "", eff.ConfigFile)
	require.Equal(t, filepath.Join(cwd, DefaultDataset), eff.Dataset)
	require.Equal(t, DefaultListen, eff.Listen)
	require.Equal(t, DefaultFetchTimeout, eff.FetchTimeout)
	require.Equal(t, DefaultFallbackImage, eff.FallbackImage)
	require.Equal(t, 0, eff.RetryMax)
	require.False(t, eff.IsRemote())
}

func TestLoadEffective_ExplicitConfigNotFound(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{ConfigPath: "nope.yaml"})
	require.Equal(t, ErrCodeNotFound, Code(err), "err=%v", err)
}

func TestLoadEffective_YAMLDiscoveredAndRelativeToConfigDir(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "moviecat.yaml"), []byte(
		"dataset: data/movies.json\nlisten: 0.0.0.0:9090\nfetch_timeout: 5s\nretry_max: 9\nproxy:\n  url: http://127.0.0.1:7890\n"))

	eff, err := LoadEffective(cwd, CLIArgs{})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cwd, "moviecat.yaml"), eff.ConfigFile)
	require.Equal(t, filepath.Join(cwd, "data", "movies.json"), eff.Dataset)
	require.Equal(t, "0.0.0.0:9090", eff.Listen)
	require.Equal(t, 5*time.Second, eff.FetchTimeout)
	require.Equal(t, 5, eff.RetryMax, "retry_max 超出范围应截断")
	require.Equal(t, "http://127.0.0.1:7890", eff.ProxyURL)
}

func TestLoadEffective_JSONConfig(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "moviecat.json"), []byte(`{"dataset":"https://cdn.test/movies.json","fallback_image":"/static/none.png"}`))

	eff, err := LoadEffective(cwd, CLIArgs{})
	require.NoError(t, err)
	require.Equal(t, "https://cdn.test/movies.json", eff.Dataset)
	require.True(t, eff.IsRemote())
	require.Equal(t, "/static/none.png", eff.FallbackImage)
}

func TestLoadEffective_CLIOverridesConfig(t *testing.T) {
	cwd := t.TempDir()
	cfgDir := filepath.Join(cwd, "conf")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	writeFile(t, filepath.Join(cfgDir, "site.yml"), []byte("dataset: a.json\nlisten: 127.0.0.1:1\n"))

	eff, err := LoadEffective(cwd, CLIArgs{
		ConfigPath: filepath.Join("conf", "site.yml"),
		Dataset:    "b.json",
		DatasetSet: true,
		Listen:     "127.0.0.1:2",
		ListenSet:  true,
	})
	require.NoError(t, err)
	// CLI 的相对路径以 cwd 为基准，而不是配置文件目录。
	require.Equal(t, filepath.Join(cwd, "b.json"), eff.Dataset)
	require.Equal(t, "127.0.0.1:2", eff.Listen)
}

func TestLoadEffective_FileURLDataset(t *testing.T) {
	cwd := t.TempDir()
	eff, err := LoadEffective(cwd, CLIArgs{Dataset: "file:///srv/movies.json", DatasetSet: true})
	require.NoError(t, err)
	require.Equal(t, filepath.Clean("/srv/movies.json"), eff.Dataset)
}

func TestLoadEffective_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":         "dataset: [",
		"unknown field":    "datset: x.json\n",
		"bad timeout":      "fetch_timeout: soon\n",
		"negative timeout": "fetch_timeout: -1s\n",
		"bad listen":       "listen: nope\n",
		"bad proxy":        "proxy:\n  url: 127.0.0.1:8080\n",
		"bad scheme":       "dataset: ftp://h/movies.json\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			cwd := t.TempDir()
			writeFile(t, filepath.Join(cwd, "moviecat.yaml"), []byte(body))
			_, err := LoadEffective(cwd, CLIArgs{})
			require.Equal(t, ErrCodeInvalid, Code(err), "err=%v", err)
		})
	}
}

func TestLoadEffective_EmptyYAMLIsAllowed(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "moviecat.yaml"), nil)

	eff, err := LoadEffective(cwd, CLIArgs{})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cwd, DefaultDataset), eff.Dataset)
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入文件失败 %q：%v", path, err)
	}
}
