// Package labels parses and validates the labels property of vault entries
// into Kubernetes object labels.
package labels

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	k8slabels "k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/util/validation"
)

// Parse converts a labels property into a label map.
//
// Two forms are accepted: a YAML (or JSON) mapping such as "app: web" or
// "{app: web, tier: db}", and a comma separated list such as
// "app=web,tier=db". An empty string yields a nil map. Every key must be a
// qualified name and every value a valid label value.
func Parse(s string) (map[string]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	set, err := parseMapping(s)
	if err != nil {
		set, err = parseList(s)
		if err != nil {
			return nil, fmt.Errorf("labels %q are neither a mapping nor a key=value list: %w", s, err)
		}
	}

	if err := Validate(set); err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, nil
	}
	return set, nil
}

func parseMapping(s string) (map[string]string, error) {
	var set map[string]string
	if err := yaml.Unmarshal([]byte(s), &set); err != nil {
		return nil, err
	}
	if set == nil {
		return nil, fmt.Errorf("not a mapping")
	}
	return set, nil
}

func parseList(s string) (map[string]string, error) {
	set, err := k8slabels.ConvertSelectorToLabelsMap(s)
	if err != nil {
		return nil, err
	}
	return map[string]string(set), nil
}

// Validate checks label keys and values against the Kubernetes label syntax.
func Validate(set map[string]string) error {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, k := range keys {
		for _, msg := range validation.IsQualifiedName(k) {
			errs = append(errs, fmt.Errorf("invalid label key %q: %s", k, msg))
		}
		for _, msg := range validation.IsValidLabelValue(set[k]) {
			errs = append(errs, fmt.Errorf("invalid label value %q for key %q: %s", set[k], k, msg))
		}
	}
	return errors.Join(errs...)
}
