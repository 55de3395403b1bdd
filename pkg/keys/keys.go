// Package keys resolves the Z.AI API credential.
//
// Resolution walks a fixed, ordered list of sources and stops at the first
// one that yields a key: an explicit per-call value, the host's keys.json
// store, then the ZAI_API_KEY environment variable. Nothing is cached; every
// call re-runs the chain so an explicit key on one call never bleeds into
// the next.
package keys

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// Alias is the name the host's key store files the credential under.
	Alias = "zai"

	// EnvVar is the environment variable consulted last.
	EnvVar = "ZAI_API_KEY"

	// userPathVar overrides the host config directory when set.
	userPathVar = "LLM_USER_PATH"

	// hostDir is the host framework's config directory name.
	hostDir = "io.datasette.llm"
)

// MissingKeyError is returned when no source in the chain yields a key.
// Its message names the remedies but never any key material.
type MissingKeyError struct{}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("API key required: use 'llm keys set %s' or set the %s environment variable", Alias, EnvVar)
}

// Source yields a credential, or reports that it holds none.
type Source interface {
	Resolve() (key string, ok bool, err error)
}

// Explicit is a per-call key passed directly by the caller.
type Explicit string

// Resolve returns the explicit key when non-empty.
func (e Explicit) Resolve() (string, bool, error) {
	if e == "" {
		return "", false, nil
	}
	return string(e), true, nil
}

// FileStore reads the host framework's keys.json, a flat JSON object mapping
// key aliases to values. A missing file means "no key here", not an error;
// a malformed file is an error so a typo is never silently skipped.
type FileStore struct {
	Path  string
	Alias string
}

// Resolve looks up the store's alias in the keys file.
func (s FileStore) Resolve() (string, bool, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read key store: %w", err)
	}

	var store map[string]string
	if err := json.Unmarshal(data, &store); err != nil {
		return "", false, fmt.Errorf("parse key store %s: %w", s.Path, err)
	}

	key, ok := store[s.Alias]
	if !ok || key == "" {
		return "", false, nil
	}
	return key, true, nil
}

// Env reads the named environment variable.
type Env string

// Resolve returns the variable's value when set and non-empty.
func (e Env) Resolve() (string, bool, error) {
	val := os.Getenv(string(e))
	if val == "" {
		return "", false, nil
	}
	return val, true, nil
}

// Chain tries its sources in order and returns the first key found.
type Chain []Source

// Resolve walks the chain. It returns *MissingKeyError when every source
// comes up empty, or the first source error encountered.
func (c Chain) Resolve() (string, error) {
	for _, src := range c {
		key, ok, err := src.Resolve()
		if err != nil {
			return "", err
		}
		if ok {
			return key, nil
		}
	}
	return "", &MissingKeyError{}
}

// StorePath returns the location of the host's keys.json: under the
// directory named by LLM_USER_PATH when set, otherwise under the user
// config directory.
func StorePath() (string, error) {
	if dir := os.Getenv(userPathVar); dir != "" {
		return filepath.Join(dir, "keys.json"), nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, hostDir, "keys.json"), nil
}

// Resolve runs the default chain: explicit key, then the host key store,
// then ZAI_API_KEY.
func Resolve(explicit string) (string, error) {
	path, err := StorePath()
	if err != nil {
		return "", err
	}

	chain := Chain{
		Explicit(explicit),
		FileStore{Path: path, Alias: Alias},
		Env(EnvVar),
	}

	return chain.Resolve()
}
