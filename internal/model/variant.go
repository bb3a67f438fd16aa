package model

import (
	"fmt"
	"sort"
	"strings"

	"distbuild/internal/config"
)

// VariantValue is one choice of a category.
type VariantValue struct {
	ID    string `yaml:"id,omitempty"`
	Label string `yaml:"label,omitempty"`
}

// VariantCategory is a named configuration axis such as debug mode. Every
// combination picks exactly one of its values; identifiers leave the default
// value out.
type VariantCategory struct {
	ID    string   `yaml:"id"`
	Label string   `yaml:"label,omitempty"`
	Usage TaskKind `yaml:"usage"`
	// Order is the declared position; identifiers and job names list values
	// by ascending Order.
	Order   int                     `yaml:"order"`
	Values  map[string]VariantValue `yaml:"values"`
	Default string                  `yaml:"default"`
}

// Has reports whether valueID belongs to the category.
func (c *VariantCategory) Has(valueID string) bool {
	_, ok := c.Values[valueID]
	return ok
}

// Value returns the value with the given ID; the ID is taken from the map key.
func (c *VariantCategory) Value(valueID string) (VariantValue, bool) {
	v, ok := c.Values[valueID]
	if !ok {
		return VariantValue{}, false
	}
	v.ID = valueID
	return v, true
}

// ValueIDs returns the category's value IDs, sorted.
func (c *VariantCategory) ValueIDs() []string {
	ids := make([]string, 0, len(c.Values))
	for id := range c.Values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks that the category has values, a default among them, and
// that every value can be written as one identifier token.
func (c *VariantCategory) Validate() error {
	var errs config.ValidationErrors
	if err := config.ValidateEntityName(c.ID, "variant category"); err != nil {
		errs = append(errs, err.(config.ValidationError))
	}
	if len(c.Values) == 0 {
		errs.Add("values", "must have at least one value")
	}
	for _, id := range c.ValueIDs() {
		if err := config.ValidateToken(fmt.Sprintf("values.%s", id), id); err != nil {
			errs = append(errs, err.(config.ValidationError))
		}
	}
	if !c.Has(c.Default) {
		errs.Add("default", "must be one of the category values", c.Default)
	}
	if errs.HasErrors() {
		return config.FormatValidationError("variant category", c.ID, errs)
	}
	return nil
}

// SortCategories orders categories by declared order, then ID.
func SortCategories(categories []*VariantCategory) {
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Order != categories[j].Order {
			return categories[i].Order < categories[j].Order
		}
		return categories[i].ID < categories[j].ID
	})
}

// Combination maps category IDs to value IDs.
type Combination map[string]string

// Equal reports whether both maps hold the same pairs.
func (c Combination) Equal(other Combination) bool {
	if len(c) != len(other) {
		return false
	}
	for k, v := range c {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Clone returns a copy of the map.
func (c Combination) Clone() Combination {
	out := make(Combination, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Key is a canonical, insertion-order independent rendering used for
// sorting and map keys. It sorts by category ID because it has no access to
// declared category order.
func (c Combination) Key() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+c[k])
	}
	return strings.Join(parts, ",")
}

// Choice is one resolved (category, value) pair.
type Choice struct {
	Category string `yaml:"category"`
	Value    string `yaml:"value"`
	// Default marks a value equal to the category default; identifiers omit it.
	Default bool `yaml:"default,omitempty"`
}

// VariantError reports a combination entry that does not resolve.
type VariantError struct {
	Category string
	Value    string
	// UnknownCategory is set when the category itself is missing; otherwise
	// the category exists but the value is not one of its values.
	UnknownCategory bool
}

func (e *VariantError) Error() string {
	if e.UnknownCategory {
		return fmt.Sprintf("unknown variant category %q", e.Category)
	}
	return fmt.Sprintf("unknown variant %q for category %q", e.Value, e.Category)
}

// Resolve orders a combination by the given categories and fills every
// category the combination leaves out with its default. Categories must be
// sorted (see SortCategories). Entries naming a category outside the list,
// or a value outside its category, yield a *VariantError.
func Resolve(c Combination, categories []*VariantCategory) ([]Choice, error) {
	known := make(map[string]*VariantCategory, len(categories))
	for _, cat := range categories {
		known[cat.ID] = cat
	}

	// Report problems deterministically: by category ID.
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cat, ok := known[k]
		if !ok {
			return nil, &VariantError{Category: k, Value: c[k], UnknownCategory: true}
		}
		if !cat.Has(c[k]) {
			return nil, &VariantError{Category: k, Value: c[k]}
		}
	}

	choices := make([]Choice, 0, len(categories))
	for _, cat := range categories {
		value, ok := c[cat.ID]
		if !ok {
			value = cat.Default
		}
		choices = append(choices, Choice{
			Category: cat.ID,
			Value:    value,
			Default:  value == cat.Default,
		})
	}
	return choices, nil
}

// CombinationOf converts resolved choices back into a map.
func CombinationOf(choices []Choice) Combination {
	c := make(Combination, len(choices))
	for _, ch := range choices {
		c[ch.Category] = ch.Value
	}
	return c
}

// ExplicitCombinationOf keeps the choices that differ from their category
// default. It is the form configuration trees store.
func ExplicitCombinationOf(choices []Choice) Combination {
	c := make(Combination)
	for _, ch := range choices {
		if !ch.Default {
			c[ch.Category] = ch.Value
		}
	}
	return c
}

// ChoiceValues returns the values of choices in order.
func ChoiceValues(choices []Choice) []string {
	values := make([]string, 0, len(choices))
	for _, ch := range choices {
		values = append(values, ch.Value)
	}
	return values
}

// CombinationString joins the values of choices with '-', the form job
// names use.
func CombinationString(choices []Choice) string {
	return strings.Join(ChoiceValues(choices), "-")
}
