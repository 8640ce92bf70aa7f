// Package config holds the command line configuration shared by the
// graphjson subcommands.
package config

import (
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	restfb "github.com/restfb/restfb-sub000"
	"github.com/restfb/restfb-sub000/client"
	drvgojson "github.com/restfb/restfb-sub000/source/gojson"
)

// Globals are the flags available to every subcommand. Each can also come
// from the environment or a YAML file passed with --config.
type Globals struct {
	Config      kong.ConfigFlag `kong:"short='c',help='Load configuration from a YAML file.'"`
	LogLevel    string          `kong:"short='l',default='info',enum='debug,info,warn,error',help='Log level',env='GRAPHJSON_LOG_LEVEL'"`
	NoColor     bool            `kong:"help='Disable colored log output',env='NO_COLOR'"`
	Driver      string          `kong:"default='encoding/json',enum='encoding/json,go-json',help='JSON tokenizer',env='GRAPHJSON_DRIVER'"`
	Duplicates  string          `kong:"default='ignore',enum='ignore,warn,error',help='Duplicate key handling',env='GRAPHJSON_DUPLICATES'"`
	MaxDepth    int             `kong:"help='Maximum nesting depth (0 for the default)',env='GRAPHJSON_MAX_DEPTH'"`
	AccessToken string          `kong:"help='Graph API access token',env='GRAPHJSON_ACCESS_TOKEN,FACEBOOK_ACCESS_TOKEN'"`
	AppSecret   string          `kong:"help='App secret used for appsecret_proof',env='GRAPHJSON_APP_SECRET'"`
	APIVersion  string          `kong:"name='api-version',help='Graph API version such as v21.0',env='GRAPHJSON_API_VERSION'"`
	BaseURL     string          `kong:"help='Graph API base URL',env='GRAPHJSON_BASE_URL'"`
}

// ParseOpt translates the parsing flags.
func (g *Globals) ParseOpt() restfb.ParseOpt {
	opt := restfb.ParseOpt{MaxDepth: g.MaxDepth}
	switch g.Duplicates {
	case "warn":
		opt.Strictness.OnDuplicateKey = restfb.Warn
	case "error":
		opt.Strictness.OnDuplicateKey = restfb.Error
	}
	return opt
}

// ApplyDriver installs the selected tokenizer process-wide.
func (g *Globals) ApplyDriver() {
	if g.Driver == "go-json" {
		restfb.SetJSONDriver(drvgojson.Driver())
		return
	}
	restfb.UseDefaultJSONDriver()
}

// ClientConfig returns the Graph client settings.
func (g *Globals) ClientConfig() client.Config {
	return client.Config{
		AccessToken: g.AccessToken,
		AppSecret:   g.AppSecret,
		Version:     g.APIVersion,
		BaseURL:     g.BaseURL,
		ParseOpt:    g.ParseOpt(),
	}
}

// YAML is a kong configuration loader. Keys are flag names written with
// dashes or underscores; nested mappings join their keys with dashes.
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("decode yaml config: %w", err)
	}
	flat := map[string]any{}
	flatten("", values, flat)
	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		v, ok := flat[flag.Name]
		if !ok {
			return nil, nil
		}
		return v, nil
	}
	return f, nil
}

func flatten(prefix string, in map[string]any, out map[string]any) {
	for k, v := range in {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}
		if m, ok := v.(map[string]any); ok {
			flatten(key, m, out)
			continue
		}
		out[key] = v
	}
}
