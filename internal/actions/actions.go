// Package actions encodes and decodes the compact action strings carried by
// interactive controls. The wire format is "<verb>_<id>"; decoding happens
// exactly once, into a closed Kind enum, so dispatch is an exhaustive switch
// instead of scattered string-prefix checks.
package actions

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notevault/internal/common"
)

// Kind is the closed set of verbs a control can carry.
type Kind int

const (
	KindUnknown Kind = iota
	KindNew          // initiate an upload (no id)
	KindCancel       // cancel the current upload (no id)
	KindFolder       // folder selection, id = folder id
	KindCategory     // category selection, id = category id
	KindRevoke       // lifecycle, id = record id
	KindActivate     // lifecycle, id = record id
	KindRegenerate   // lifecycle, id = record id
	KindShare        // lifecycle, id = record id
	KindOpen         // consumer access, id = record id
	KindDelete       // lifecycle, id = record id
)

// Action is a decoded control activation.
type Action struct {
	Kind Kind
	ID   string
}

const separator = "_"

var verbs = map[string]Kind{
	"new":      KindNew,
	"cancel":   KindCancel,
	"folder":   KindFolder,
	"category": KindCategory,
	"revoke":   KindRevoke,
	"activate": KindActivate,
	"regen":    KindRegenerate,
	"share":    KindShare,
	"open":     KindOpen,
	"delete":   KindDelete,
}

var verbNames = func() map[Kind]string {
	m := make(map[Kind]string, len(verbs))
	for v, k := range verbs {
		m[k] = v
	}
	return m
}()

// needsID reports whether the verb carries a target identifier.
func needsID(k Kind) bool {
	return k != KindNew && k != KindCancel
}

// Decode parses an action string. Unknown verbs, a missing id, or an id
// containing the separator yield common.ErrUnrecognizedEvent: a stale or
// corrupted control must produce a visible response, never dispatch.
func Decode(s string) (Action, error) {
	verb, id, found := strings.Cut(s, separator)

	kind, ok := verbs[verb]
	if !ok {
		return Action{}, fmt.Errorf("%w: %q", common.ErrUnrecognizedEvent, s)
	}

	if !needsID(kind) {
		if found {
			return Action{}, fmt.Errorf("%w: %q", common.ErrUnrecognizedEvent, s)
		}
		return Action{Kind: kind}, nil
	}

	if !found || id == "" || strings.Contains(id, separator) {
		return Action{}, fmt.Errorf("%w: %q", common.ErrUnrecognizedEvent, s)
	}

	return Action{Kind: kind, ID: id}, nil
}

// Encode renders an action into its wire form.
func Encode(kind Kind, id string) string {
	verb := verbNames[kind]
	if !needsID(kind) {
		return verb
	}
	return verb + separator + id
}
