// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package services

import (
	"regexp"
	"strings"
)

// codeFencePattern matches a Markdown code fence opener with an optional
// language tag (```json, ```JSON, bare ```), anchored to a line start.
var codeFencePattern = regexp.MustCompile("(?mi)^```[a-z]*[ \t]*$")

// ExtractJSONObject pulls the first plausible JSON object out of a raw
// model completion.
//
// # Description
//
// Models wrap JSON in prose and Markdown fences no matter how firmly the
// prompt forbids it. This strips any code fences, then slices from the
// first '{' to the last '}' inclusive. The result is NOT validated here;
// the caller decides what a malformed object means. When no object can
// be found the function returns "{}" so downstream parsing fails on a
// well-defined input instead of an arbitrary prose fragment.
//
// # Inputs
//
//   - raw: the completion text, possibly fenced, possibly pure prose.
//
// # Outputs
//
//   - string: the candidate JSON object, or "{}" when none exists.
func ExtractJSONObject(raw string) string {
	cleaned := codeFencePattern.ReplaceAllString(raw, "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.IndexByte(cleaned, '{')
	end := strings.LastIndexByte(cleaned, '}')
	if start == -1 || end == -1 || end < start {
		return "{}"
	}
	return cleaned[start : end+1]
}
