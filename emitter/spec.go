package emitter

import "strings"

// token is one parsed entry of an event specification. The namespace keeps
// its leading dot so matching is a plain string compare.
type token struct {
	event     string
	namespace string // "" when absent
}

// parseToken splits a single token on its first dot: "foo.bar" becomes
// {"foo", ".bar"}. A leading dot yields an empty event name, meaning "this
// namespace across all events"; only Off accepts that form.
func parseToken(tok string) token {
	if i := strings.Index(tok, "."); i >= 0 {
		return token{event: tok[:i], namespace: tok[i:]}
	}
	return token{event: tok}
}

// parseSpec splits an event specification on runs of whitespace and parses
// each token. Both On and Off consume the same parsed form.
func parseSpec(spec string) ([]token, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, ErrEmptySpec
	}

	tokens := make([]token, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, parseToken(f))
	}
	return tokens, nil
}
