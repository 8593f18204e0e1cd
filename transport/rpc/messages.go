package rpc

// Byte slices are base64 strings on the wire.

type NamespaceRequest struct {
	Namespace string `json:"namespace"`
}

type KeyRequest struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
}

type PutRequest struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     []byte `json:"value"`
}

type Empty struct{}

// ValueResponse carries the value read, replaced, or removed. Found is
// false when Put stored a key that had no previous value.
type ValueResponse struct {
	Value []byte `json:"value,omitempty"`
	Found bool   `json:"found"`
}
