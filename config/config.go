// SPDX-License-Identifier: GPL-2.0-or-later

// Package config reads the server configuration file.
//
//	cvars:
//	  hostname: "my server"
//	  maxclients: 8
//	  deathmatch: 1
//	masters:
//	  - master.example.org
//	exec:
//	  - map q2dm1
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type File struct {
	Cvars   map[string]string `yaml:"cvars"`
	Masters []string          `yaml:"masters"`
	// console lines run once at startup
	Exec []string `yaml:"exec"`
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	for k := range f.Cvars {
		if k == "" || strings.ContainsAny(k, " \t\n;\"") {
			return nil, errors.Errorf("config: bad cvar name %q", k)
		}
	}
	return &f, nil
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return f, nil
}

func setLine(k, v string) string {
	return fmt.Sprintf("set %s \"%s\"\n", k, strings.ReplaceAll(v, "\"", ""))
}

// Commands are the console lines applying f: a set for every cvar, sorted
// by name, followed by the exec lines.
func (f *File) Commands() string {
	keys := make([]string, 0, len(f.Cvars))
	for k := range f.Cvars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(setLine(k, f.Cvars[k]))
	}
	for _, e := range f.Exec {
		b.WriteString(e)
		b.WriteString("\n")
	}
	return b.String()
}

// Diff returns the set lines needed to get from old to cur. Removed cvars
// keep their value, exec lines are not repeated.
func Diff(old, cur *File) string {
	keys := make([]string, 0, len(cur.Cvars))
	for k, v := range cur.Cvars {
		if ov, ok := old.Cvars[k]; ok && ov == v {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(setLine(k, cur.Cvars[k]))
	}
	return b.String()
}
