package v1alpha1

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrEmptySelector     = errors.New("selector must set one of podName or nodeSelector")
	ErrAmbiguousSelector = errors.New("selector must set only one of podName or nodeSelector")
)

// Validate checks the one-of constraint on the selector. The CRD schema
// enforces the same rule server-side; this guards in-process construction.
func (s *EipSelector) Validate() error {
	switch {
	case s.PodName == "" && len(s.NodeSelector) == 0:
		return ErrEmptySelector
	case s.PodName != "" && len(s.NodeSelector) != 0:
		return ErrAmbiguousSelector
	}
	return nil
}

// MatchesPod reports whether this Eip selects the named pod.
func (e *Eip) MatchesPod(podName string) bool {
	return e.Spec.Selector.PodName != "" && e.Spec.Selector.PodName == podName
}

// MatchesNode reports whether this Eip's node selector matches the given
// node labels. An Eip with a pod selector never matches a node.
func (e *Eip) MatchesNode(nodeLabels map[string]string) bool {
	if len(e.Spec.Selector.NodeSelector) == 0 {
		return false
	}
	for key, value := range e.Spec.Selector.NodeSelector {
		if nodeLabels[key] != value {
			return false
		}
	}
	return true
}

// String renders the selector for logs and AWS tags.
func (s EipSelector) String() string {
	if s.PodName != "" {
		return fmt.Sprintf("Pod(%s)", s.PodName)
	}
	keys := make([]string, 0, len(s.NodeSelector))
	for key := range s.NodeSelector {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, s.NodeSelector[key]))
	}
	return fmt.Sprintf("Node(%s)", strings.Join(parts, ", "))
}
