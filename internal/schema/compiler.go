package schema

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
)

// DefaultCompiler is shared by every validator built with New.
var DefaultCompiler = NewCompiler()

// Compiler builds validators and caches compiled schemas by document digest.
// Two goroutines compiling the same document at once may both do the work;
// LoadOrStore keeps one result.
type Compiler struct {
	cache sync.Map // sha256 of the document -> *santhosh.Schema
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// New builds a validator for s using DefaultCompiler.
func New(s Schema) (*Validator, error) {
	return DefaultCompiler.Compile(s)
}

// MustNew is New for package-level route schemas; it panics on a bad definition.
func MustNew(s Schema) *Validator {
	v, err := New(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (c *Compiler) Compile(s Schema) (*Validator, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	compiled, err := c.load(doc)
	if err != nil {
		return nil, err
	}

	order := make(map[string]int, len(s.fields))
	var required []string
	for i, f := range s.fields {
		order[f.Name] = i
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return &Validator{schema: compiled, order: order, required: required}, nil
}

func (c *Compiler) load(doc []byte) (*santhosh.Schema, error) {
	key := digest(doc)
	if cached, ok := c.cache.Load(key); ok {
		return cached.(*santhosh.Schema), nil
	}

	compiled, err := compileDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	actual, _ := c.cache.LoadOrStore(key, compiled)
	return actual.(*santhosh.Schema), nil
}

// compileDocument uses a fresh santhosh compiler per document; the compiled
// *santhosh.Schema is read-only afterwards.
func compileDocument(doc []byte) (*santhosh.Schema, error) {
	compiler := santhosh.NewCompiler()
	compiler.Draft = santhosh.Draft7
	compiler.AssertFormat = true
	if err := compiler.AddResource("schema.json", bytes.NewReader(doc)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

func digest(doc []byte) string {
	sum := sha256.Sum256(doc)
	return hex.EncodeToString(sum[:])
}
