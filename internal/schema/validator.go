package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"

	santhosh "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/atvirokodosprendimai/bookstore/internal/apperr"
)

// RootPath names the payload itself in a Violation.
const RootPath = "(root)"

// Violation is one failed constraint. Path is RootPath or a JSON pointer such as /year.
type Violation struct {
	Path    string
	Message string
}

func (v Violation) String() string {
	return v.Path + " " + v.Message
}

// Outcome is the result of checking one payload. It is valid when it carries no violations.
type Outcome struct {
	Violations []Violation
}

func (o Outcome) Valid() bool {
	return len(o.Violations) == 0
}

// Message joins every violation in order, e.g.
// "Validation failed: (root) must NOT have additional property 'extra', /year expected integer, but got string".
func (o Outcome) Message() string {
	parts := make([]string, 0, len(o.Violations))
	for _, v := range o.Violations {
		parts = append(parts, v.String())
	}
	return "Validation failed: " + strings.Join(parts, ", ")
}

// Err returns nil for a valid outcome and a 400 *apperr.Error otherwise.
func (o Outcome) Err() error {
	if o.Valid() {
		return nil
	}
	return apperr.BadRequest(o.Message())
}

// Validator checks request bodies against one compiled schema. It holds no
// per-call state.
type Validator struct {
	schema   *santhosh.Schema
	order    map[string]int
	required []string
}

// Check validates body and reports every violation found in a single pass.
// body is never modified.
func (v *Validator) Check(body []byte) Outcome {
	instance, err := decode(body)
	if err != nil {
		return Outcome{Violations: []Violation{{Path: RootPath, Message: err.Error()}}}
	}

	err = v.schema.Validate(instance)
	if err == nil {
		return Outcome{}
	}

	var ve *santhosh.ValidationError
	if !errors.As(err, &ve) {
		return Outcome{Violations: []Violation{{Path: RootPath, Message: err.Error()}}}
	}
	return Outcome{Violations: v.sorted(v.expand(collectLeaves(ve, nil), instance))}
}

var (
	errEmptyBody     = errors.New("request body is required")
	errMalformedBody = errors.New("request body must be valid JSON")
)

func decode(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errEmptyBody
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var instance any
	if err := decoder.Decode(&instance); err != nil {
		return nil, errMalformedBody
	}
	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != io.EOF {
		return nil, errMalformedBody
	}
	return instance, nil
}

type leaf struct {
	violation Violation
	keyword   string
	seq       int
}

func collectLeaves(ve *santhosh.ValidationError, out []leaf) []leaf {
	if len(ve.Causes) == 0 {
		return append(out, leaf{
			violation: Violation{Path: displayPath(ve.InstanceLocation), Message: ve.Message},
			keyword:   ve.KeywordLocation,
		})
	}
	for _, cause := range ve.Causes {
		out = collectLeaves(cause, out)
	}
	return out
}

// expand splits the library's aggregate required and additionalProperties
// leaves into one violation per property. Missing properties keep declaration
// order; unknown ones are sorted by name.
func (v *Validator) expand(leaves []leaf, instance any) []leaf {
	obj, ok := instance.(map[string]any)
	if !ok {
		return leaves
	}

	out := make([]leaf, 0, len(leaves))
	for _, l := range leaves {
		if l.violation.Path != RootPath {
			out = append(out, l)
			continue
		}
		switch {
		case strings.HasSuffix(l.keyword, "/required"):
			for _, name := range v.required {
				if _, present := obj[name]; present {
					continue
				}
				out = append(out, leaf{
					violation: Violation{Path: RootPath, Message: "must have required property '" + name + "'"},
					keyword:   l.keyword,
					seq:       v.order[name],
				})
			}
		case strings.HasSuffix(l.keyword, "/additionalProperties"):
			unknown := make([]string, 0, len(obj))
			for name := range obj {
				if _, declared := v.order[name]; !declared {
					unknown = append(unknown, name)
				}
			}
			sort.Strings(unknown)
			for i, name := range unknown {
				out = append(out, leaf{
					violation: Violation{Path: RootPath, Message: "must NOT have additional property '" + name + "'"},
					keyword:   l.keyword,
					seq:       i,
				})
			}
		default:
			out = append(out, l)
		}
	}
	return out
}

func displayPath(instanceLocation string) string {
	if instanceLocation == "" || instanceLocation == "/" {
		return RootPath
	}
	return instanceLocation
}

// sorted orders leaves root first, then by field declaration order. The
// underlying library walks properties in map order, so this is what makes
// messages stable.
func (v *Validator) sorted(leaves []leaf) []Violation {
	sort.SliceStable(leaves, func(i, j int) bool {
		ri, rj := v.rank(leaves[i].violation.Path), v.rank(leaves[j].violation.Path)
		if ri != rj {
			return ri < rj
		}
		if leaves[i].violation.Path != leaves[j].violation.Path {
			return leaves[i].violation.Path < leaves[j].violation.Path
		}
		if leaves[i].keyword != leaves[j].keyword {
			return leaves[i].keyword < leaves[j].keyword
		}
		if leaves[i].seq != leaves[j].seq {
			return leaves[i].seq < leaves[j].seq
		}
		return leaves[i].violation.Message < leaves[j].violation.Message
	})

	out := make([]Violation, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, l.violation)
	}
	return out
}

func (v *Validator) rank(path string) int {
	if path == RootPath {
		return -1
	}
	name := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		name = name[:i]
	}
	if idx, ok := v.order[name]; ok {
		return idx
	}
	return len(v.order)
}
