/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"shirtdesigner/internal/vector"
)

var (
	reToken   = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"|(\S+)`)
	reSection = regexp.MustCompile(`^(#+)\s*(.*)$`)
	reAlias   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-]{0,63}$`)
)

// styleKeys are the keys accepted by style and preview.
var styleKeys = map[string]bool{"color": true, "font": true, "size": true, "content": true, "name": true}

type token struct {
	text string
	col  int
}

// Parse parses a replay script.
// Supported syntax:
//   - "# Title" starts a section; steps remember the section they belong to.
//   - Lines starting with ';' are comments.
//   - Every other non-blank line is "command arg...". Arguments are separated
//     by spaces; double-quoted arguments may contain spaces and Go escapes.
//
// Parse keeps going after a bad line so all errors are reported at once.
func Parse(input string) (Script, []Error) {
	s := Script{Steps: []Step{}}
	var errs []Error
	section := ""

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, ";") {
			continue
		}
		if m := reSection.FindStringSubmatch(trim); m != nil {
			section = strings.TrimSpace(m[2])
			continue
		}
		step, err := parseLine(line, lineNo)
		if err != nil {
			errs = append(errs, *err)
			continue
		}
		step.Section = section
		s.Steps = append(s.Steps, step)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Column: 1, Message: err.Error()})
	}
	return s, errs
}

func tokenize(line string, lineNo int) ([]token, *Error) {
	var toks []token
	for _, m := range reToken.FindAllStringSubmatchIndex(line, -1) {
		col := m[0] + 1
		if m[2] >= 0 {
			v, err := strconv.Unquote(line[m[0]:m[1]])
			if err != nil {
				return nil, &Error{Line: lineNo, Column: col, Message: "bad quoted argument"}
			}
			toks = append(toks, token{text: v, col: col})
			continue
		}
		text := line[m[4]:m[5]]
		if strings.HasPrefix(text, "\"") {
			return nil, &Error{Line: lineNo, Column: col, Message: "unterminated quote"}
		}
		toks = append(toks, token{text: text, col: col})
	}
	return toks, nil
}

func parseLine(line string, lineNo int) (Step, *Error) {
	toks, perr := tokenize(line, lineNo)
	if perr != nil {
		return Step{}, perr
	}
	fail := func(t token, format string, a ...any) (Step, *Error) {
		return Step{}, &Error{Line: lineNo, Column: t.col, Message: fmt.Sprintf(format, a...)}
	}
	op := Op(strings.ToLower(toks[0].text))
	ar, ok := ops[op]
	if !ok {
		return fail(toks[0], "unknown command %q", toks[0].text)
	}
	args := toks[1:]
	step := Step{Op: op, LineNo: lineNo}

	if op == OpAddImage || op == OpAddText || op == OpUpload {
		if n := len(args); n >= 2 && args[n-2].text == "as" {
			if !reAlias.MatchString(args[n-1].text) {
				return fail(args[n-1], "bad alias %q", args[n-1].text)
			}
			step.Alias = args[n-1].text
			args = args[:n-2]
		}
	}
	if len(args) < ar.min || (ar.max >= 0 && len(args) > ar.max) {
		return fail(toks[0], "%s: wrong number of arguments (%d)", op, len(args))
	}
	for _, a := range args {
		step.Args = append(step.Args, a.text)
	}

	switch op {
	case OpClick, OpDown, OpMove:
		if t, ok := firstNonNumber(args); !ok {
			return fail(t, "%s: %q is not a number", op, t.text)
		}
	case OpDrag:
		if t, ok := firstNonNumber(args[1:]); !ok {
			return fail(t, "drag: %q is not a number", t.text)
		}
	case OpResize:
		if _, err := vector.ParseHandle(args[1].text); err != nil {
			return fail(args[1], "resize: %v", err)
		}
		if t, ok := firstNonNumber(args[2:]); !ok {
			return fail(t, "resize: %q is not a number", t.text)
		}
	case OpStyle, OpPreview:
		for _, a := range args[1:] {
			k, v, found := strings.Cut(a.text, "=")
			if !found || !styleKeys[k] {
				return fail(a, "%s: expected key=value with key one of color, font, size, content, name; got %q", op, a.text)
			}
			if k == "size" {
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					return fail(a, "%s: size %q is not a number", op, v)
				}
			}
		}
	case OpKey:
		if len(args) == 2 && args[1].text != "focused" {
			return fail(args[1], "key: unexpected %q (only \"focused\" is allowed)", args[1].text)
		}
	case OpExpect:
		want := 2
		if args[0].text == "at" {
			want = 4
		}
		if len(args) != want {
			return fail(toks[0], "expect %s: wrong number of arguments (%d)", args[0].text, len(args))
		}
		switch args[0].text {
		case "at":
			if t, ok := firstNonNumber(args[1:3]); !ok {
				return fail(t, "expect at: %q is not a number", t.text)
			}
		case "count":
			if n, err := strconv.Atoi(args[1].text); err != nil || n < 0 {
				return fail(args[1], "expect count: %q is not a count", args[1].text)
			}
		case "selected":
		case "undo", "redo":
			if _, err := parseYesNo(args[1].text); err != nil {
				return fail(args[1], "expect %s: %v", args[0].text, err)
			}
		default:
			return fail(args[0], "expect: unknown subject %q", args[0].text)
		}
	}
	return step, nil
}

func firstNonNumber(args []token) (token, bool) {
	for _, a := range args {
		if _, err := strconv.ParseFloat(a.text, 64); err != nil {
			return a, false
		}
	}
	return token{}, true
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%q is not yes or no", s)
}
