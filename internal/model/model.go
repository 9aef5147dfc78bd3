// Package model defines the records stored for each entity kind, the wire
// schemas accepted by the endpoints and the table descriptors the generic
// repositories use to persist them.
package model

// set copies *src into *dst when the field was present in the request
// body. An explicit JSON null decodes to a nil pointer and is skipped too.
func set[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}
