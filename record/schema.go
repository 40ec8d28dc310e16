package record

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"sync"

	"github.com/arloliu/packrec/errs"
	"github.com/arloliu/packrec/format"
	"github.com/arloliu/packrec/internal/hash"
	"github.com/arloliu/packrec/internal/options"
	"github.com/arloliu/packrec/layout"
)

// Schema is the resolved, immutable layout of one record type.
type Schema struct {
	typ    reflect.Type
	fields []*field
	mode   format.Mode
	policy format.EmptyListPolicy
	logger *slog.Logger

	// compiled is nil unless the record type was registered with
	// WithCompiled and has at least one Scalar, Text or Bytes field.
	compiled       *layout.Token
	compiledFields []*field
	covers         bool

	fingerprint func() uint64
	fixedSize   func() (int, bool)
}

type entry struct {
	once   sync.Once
	cfg    *Config
	schema *Schema
	err    error
}

func (e *entry) resolve(typ reflect.Type) (*Schema, error) {
	e.once.Do(func() {
		e.schema, e.err = buildSchema(typ, e.cfg)
	})

	return e.schema, e.err
}

// registry maps reflect.Type to *entry.
var registry sync.Map

func structType(typ reflect.Type) (reflect.Type, error) {
	if typ == nil {
		return nil, fmt.Errorf("%w: nil type", errs.ErrNotStruct)
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", errs.ErrNotStruct, typ)
	}

	return typ, nil
}

// Register resolves the schema of typ with the given options.
//
// Registering is optional: a type used without registration is resolved
// with the defaults on first use. Registering a type again with equal
// options is a no-op; different options, or registering after the type
// was already resolved with other options, fail with ErrAlreadyRegistered.
//
// Parameters:
//   - typ: A struct type or a pointer to one
//   - opts: Registration options
//
// Returns:
//   - error: ErrNotStruct, ErrAlreadyRegistered, ErrUnknownField for options
//     naming missing fields, or ErrInvalidLayoutToken for bad tags
func Register(typ reflect.Type, opts ...Option) error {
	typ, err := structType(typ)
	if err != nil {
		return err
	}

	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return fmt.Errorf("register %s: %w", typ, err)
	}

	e := &entry{cfg: cfg}
	actual, loaded := registry.LoadOrStore(typ, e)
	if loaded {
		e, _ = actual.(*entry)
		if !e.cfg.equal(cfg) {
			return fmt.Errorf("%w: %s", errs.ErrAlreadyRegistered, typ)
		}
	}

	if _, err := e.resolve(typ); err != nil {
		// drop the entry so the type can be registered again
		registry.CompareAndDelete(typ, e)
		return fmt.Errorf("register %s: %w", typ, err)
	}

	return nil
}

// SchemaFor returns the schema of typ, resolving it with the default
// options if the type was never registered. typ may be a struct type or a
// pointer to one.
func SchemaFor(typ reflect.Type) (*Schema, error) {
	typ, err := structType(typ)
	if err != nil {
		return nil, err
	}

	v, ok := registry.Load(typ)
	if !ok {
		v, _ = registry.LoadOrStore(typ, &entry{cfg: newConfig()})
	}
	e, _ := v.(*entry)

	return e.resolve(typ)
}

func buildSchema(typ reflect.Type, cfg *Config) (*Schema, error) {
	fields, err := resolveFields(typ, cfg)
	if err != nil {
		return nil, err
	}

	s := &Schema{
		typ:    typ,
		fields: fields,
		mode:   format.ModeDirect,
		policy: cfg.emptyList,
		logger: cfg.log(),
	}
	if cfg.mode == format.ModeCompiled {
		s.compile()
	}
	s.fingerprint = sync.OnceValue(func() uint64 {
		return hash.Fingerprint(s.signature(make(map[reflect.Type]bool))...)
	})
	s.fixedSize = sync.OnceValues(func() (int, bool) {
		return s.width(make(map[reflect.Type]bool))
	})

	return s, nil
}

func (s *Schema) compile() {
	tokens := make([]*layout.Token, 0, len(s.fields))
	compiled := make([]*field, 0, len(s.fields))
	var skipped []string

	for _, f := range s.fields {
		if f.Kind.Compilable() {
			tokens = append(tokens, f.token)
			compiled = append(compiled, f)
		} else {
			skipped = append(skipped, f.Name)
		}
	}

	if len(compiled) == 0 {
		s.logger.Warn("compiled layout requested for a record without scalar fields, using direct codec",
			"record", s.typ.String())

		return
	}

	s.compiled = layout.Merge(tokens...)
	s.compiledFields = compiled
	s.covers = len(skipped) == 0
	s.mode = format.ModeCompiled

	if !s.covers {
		s.logger.Warn("compiled layout does not cover nested or list fields, they are skipped on encode and decode",
			"record", s.typ.String(), "layout", s.compiled.String(), "skipped", skipped)
	}
}

// Type returns the record type.
func (s *Schema) Type() reflect.Type { return s.typ }

// Mode returns the codec path used by the schema.
func (s *Schema) Mode() format.Mode { return s.mode }

// Fields returns the wire fields in declaration order.
func (s *Schema) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.FieldDescriptor
	}

	return out
}

// CompiledLayout returns the merged layout token of a compiled schema.
func (s *Schema) CompiledLayout() (string, bool) {
	if s.compiled == nil {
		return "", false
	}

	return s.compiled.String(), true
}

// CompiledCovers reports whether the schema has a compiled layout that
// covers every wire field.
func (s *Schema) CompiledCovers() bool {
	return s.compiled != nil && s.covers
}

// Fingerprint returns a 64-bit identity of the wire layout. Two record types
// with the same field names, kinds, tokens and encodings share a fingerprint.
func (s *Schema) Fingerprint() uint64 { return s.fingerprint() }

// FixedSize returns the encoded width of every value of the record type, or
// false when the width depends on slice lengths.
func (s *Schema) FixedSize() (int, bool) { return s.fixedSize() }

// wireFields returns the fields that take part in encode and decode.
func (s *Schema) wireFields() []*field {
	if s.compiled != nil {
		return s.compiledFields
	}

	return s.fields
}

func (s *Schema) signature(visiting map[reflect.Type]bool) []string {
	visiting[s.typ] = true
	defer delete(visiting, s.typ)

	var parts []string
	for _, f := range s.wireFields() {
		parts = append(parts, f.Name, f.Kind.String())

		if f.token != nil {
			parts = append(parts, f.token.String())
			if f.enc != nil {
				parts = append(parts, f.enc.Name())
			}

			continue
		}

		if f.typ.Kind() == reflect.Array {
			parts = append(parts, "["+strconv.Itoa(f.typ.Len())+"]")
		}
		child, err := f.childSchema()
		switch {
		case err != nil:
			parts = append(parts, "!"+f.elem.String())
		case visiting[child.typ]:
			parts = append(parts, "^"+child.typ.String())
		default:
			parts = append(parts, "{")
			parts = append(parts, child.signature(visiting)...)
			parts = append(parts, "}")
		}
	}

	return parts
}

func (s *Schema) width(visiting map[reflect.Type]bool) (int, bool) {
	if visiting[s.typ] {
		return 0, false
	}
	visiting[s.typ] = true
	defer delete(visiting, s.typ)

	if s.compiled != nil {
		return s.compiled.Size(), true
	}

	total := 0
	for _, f := range s.fields {
		if f.Kind.HasLayout() {
			total += f.token.Size()
			continue
		}

		list := f.Kind == format.KindListOfNestedRecord
		if list && f.typ.Kind() != reflect.Array {
			return 0, false
		}
		child, err := f.childSchema()
		if err != nil {
			return 0, false
		}
		n, ok := child.width(visiting)
		if !ok {
			return 0, false
		}
		if list {
			n *= f.typ.Len()
		}
		total += n
	}

	return total, true
}

// embeds reports whether s reaches target through nested record fields or
// fixed-length arrays of nested records.
func (s *Schema) embeds(target reflect.Type, seen map[reflect.Type]bool) bool {
	for _, f := range s.wireFields() {
		if !f.inline() {
			continue
		}
		if f.elem == target {
			return true
		}
		if seen[f.elem] {
			continue
		}
		seen[f.elem] = true

		child, err := SchemaFor(f.elem)
		if err == nil && child.embeds(target, seen) {
			return true
		}
	}

	return false
}
