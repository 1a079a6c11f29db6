package services

import "time"

// Payload is a decoded JSON request body.
type Payload map[string]interface{}

// merge overlays patch on base and returns a new map; only keys present in
// patch replace existing values.
func merge(base, patch Payload) Payload {
	out := make(Payload, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// withoutNulls returns a copy of p with the listed keys removed when their
// value is null, so a merge keeps the stored value for them.
func (p Payload) withoutNulls(keys ...string) Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, k := range keys {
		if v, ok := out[k]; ok && v == nil {
			delete(out, k)
		}
	}
	return out
}

func (p Payload) has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

func stringOrNil(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func timeOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func idOrNil(id *uint64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
