package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ErrCodeNotFound 表示显式指定的 --config 文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// DefaultDataset 是数据集的默认位置（相对配置所在目录；原前端请求的固定相对路径）。
	DefaultDataset = "movies.json"
	// DefaultListen 是 serve 的默认监听地址。
	DefaultListen = "127.0.0.1:8080"
	// DefaultFetchTimeout 是数据集读取的默认超时。
	DefaultFetchTimeout = 20 * time.Second
	// DefaultFallbackImage 是没有剧照时使用的图片路径。
	DefaultFallbackImage = "/defaultImg.png"
)

// 自动发现的配置文件名（按顺序，取第一个存在的）。
var discoverNames = []string{"moviecat.yaml", "moviecat.yml", "moviecat.json"}

// CLIArgs 是 CLI 暴露的入口，并保留“是否显式指定”的信息，保证 CLI 覆盖配置文件。
type CLIArgs struct {
	ConfigPath string

	Dataset    string
	DatasetSet bool

	Listen    string
	ListenSet bool
}

// FileConfig 对应 moviecat.yaml / moviecat.json 的解析结构。
type FileConfig struct {
	Dataset       string       `json:"dataset" yaml:"dataset"`
	Listen        string       `json:"listen" yaml:"listen"`
	FetchTimeout  string       `json:"fetch_timeout" yaml:"fetch_timeout"`
	FallbackImage string       `json:"fallback_image" yaml:"fallback_image"`
	RetryMax      int          `json:"retry_max" yaml:"retry_max"`
	Proxy         *ProxyConfig `json:"proxy" yaml:"proxy"`
}

type ProxyConfig struct {
	URL string `json:"url" yaml:"url"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	// ConfigFile 是实际读取的配置文件（未读取时为空）。
	ConfigFile string

	// Dataset 是 http(s) URL 或 clean + absolute 的本地路径。
	Dataset string
	Listen  string

	FetchTimeout  time.Duration
	FallbackImage string
	RetryMax      int
	ProxyURL      string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 发现并读取配置文件，然后与 CLI 参数合并为最终配置。
//
// 发现规则（固定）：
// 1) CLI 提供 --config：必须存在
// 2) 否则依次尝试 <cwd>/moviecat.yaml、moviecat.yml、moviecat.json（可选）
//
// 覆盖优先级（固定）：
// - dataset / listen：CLI > config > 默认
// - 其他字段：仅由 config 控制
//
// 相对的本地 dataset 以配置文件所在目录为基准（没有配置文件时以 cwd 为基准）。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	var (
		cfgPath string
		fc      FileConfig
	)

	if p := strings.TrimSpace(cli.ConfigPath); p != "" {
		cfgPath = absCleanFrom(cwdAbs, p)
		var exists bool
		fc, exists, err = readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
		if !exists {
			return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
		}
	} else {
		for _, name := range discoverNames {
			p := filepath.Join(cwdAbs, name)
			var exists bool
			fc, exists, err = readFileConfig(p)
			if err != nil {
				return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: p, Err: err}
			}
			if exists {
				cfgPath = p
				break
			}
		}
	}

	return merge(cwdAbs, cli, fc, cfgPath)
}

func merge(cwdAbs string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	// dataset：CLI > config > 默认；CLI 给出的相对路径以 cwd 为基准。
	base := cwdAbs
	dataset := DefaultDataset
	if cfgPath != "" {
		base = filepath.Dir(cfgPath)
	}
	if strings.TrimSpace(fc.Dataset) != "" {
		dataset = strings.TrimSpace(fc.Dataset)
	}
	if cli.DatasetSet {
		dataset = strings.TrimSpace(cli.Dataset)
		base = cwdAbs
	}
	if dataset == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("dataset 不能为空")}
	}
	dataset, err := resolveDataset(base, dataset)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	listen := DefaultListen
	if strings.TrimSpace(fc.Listen) != "" {
		listen = strings.TrimSpace(fc.Listen)
	}
	if cli.ListenSet {
		listen = strings.TrimSpace(cli.Listen)
	}
	if _, _, err := net.SplitHostPort(listen); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("listen 无效：%q", listen)}
	}

	timeout := DefaultFetchTimeout
	if s := strings.TrimSpace(fc.FetchTimeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("fetch_timeout 无效：%q", s)}
		}
		timeout = d
	}

	// 文档约定：范围 [0, 5]；超出截断。
	retry := fc.RetryMax
	if retry < 0 {
		retry = 0
	}
	if retry > 5 {
		retry = 5
	}

	proxyURL := ""
	if fc.Proxy != nil {
		proxyURL = strings.TrimSpace(fc.Proxy.URL)
	}
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("proxy.url 无效：%q", proxyURL)}
		}
	}

	fallback := strings.TrimSpace(fc.FallbackImage)
	if fallback == "" {
		fallback = DefaultFallbackImage
	}

	return EffectiveConfig{
		ConfigFile:    cfgPath,
		Dataset:       dataset,
		Listen:        listen,
		FetchTimeout:  timeout,
		FallbackImage: fallback,
		RetryMax:      retry,
		ProxyURL:      proxyURL,
	}, nil
}

// resolveDataset：http(s) URL 原样返回（校验 host）；file:// 与本地路径转为 clean + absolute。
func resolveDataset(base, ds string) (string, error) {
	lower := strings.ToLower(ds)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		u, err := url.Parse(ds)
		if err != nil || u.Host == "" {
			return "", fmt.Errorf("dataset URL 无效：%q", ds)
		}
		return ds, nil
	case strings.HasPrefix(lower, "file://"):
		u, err := url.Parse(ds)
		if err != nil || u.Path == "" {
			return "", fmt.Errorf("dataset URL 无效：%q", ds)
		}
		return absCleanFrom(base, u.Path), nil
	case strings.Contains(ds, "://"):
		return "", fmt.Errorf("dataset 只支持 http/https/file：%q", ds)
	default:
		return absCleanFrom(base, ds), nil
	}
}

// IsRemote 报告 dataset 是否是 http(s) URL。
func (e EffectiveConfig) IsRemote() bool {
	l := strings.ToLower(e.Dataset)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = filepath.Clean(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析配置文件（.json 用 encoding/json，其余按 YAML）。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(b, &fc); err != nil {
			return FileConfig{}, true, err
		}
		return fc, true, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		// 空文件：视为没有任何字段。
		if errors.Is(err, io.EOF) {
			return FileConfig{}, true, nil
		}
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
