// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// YAML is a kong.ConfigurationLoader for YAML files. Keys are flag names,
// either with dashes or with underscores, e.g.
//
//	max-files: 500
//	overwrite: true
//	exclude: ["*.log", ".git"]
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]interface{}{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "cannot decode configuration")
	}

	var f kong.ResolverFunc = func(context *kong.Context, parent *kong.Path, flag *kong.Flag) (interface{}, error) {
		raw, ok := values[flag.Name]
		if !ok {
			raw, ok = values[strings.ReplaceAll(flag.Name, "-", "_")]
		}
		if !ok {
			return nil, nil
		}
		return configValue(raw), nil
	}
	return f, nil
}

// configValue converts a decoded YAML value into the string form kong parses
// from the command line. Lists are joined with kong's default separator.
func configValue(raw interface{}) string {
	list, ok := raw.([]interface{})
	if !ok {
		return fmt.Sprint(raw)
	}
	parts := make([]string, 0, len(list))
	for _, v := range list {
		parts = append(parts, fmt.Sprint(v))
	}
	return strings.Join(parts, ",")
}
