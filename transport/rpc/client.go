package rpc

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// Client calls a remote KVService. Errors wrap the messaging sentinels
// (ErrNotFound, ErrConflict, ErrFailure) as well as the *connect.Error.
type Client struct {
	createNamespace *connect.Client[NamespaceRequest, Empty]
	get             *connect.Client[KeyRequest, ValueResponse]
	put             *connect.Client[PutRequest, ValueResponse]
	delete          *connect.Client[KeyRequest, ValueResponse]
	saveNamespace   *connect.Client[NamespaceRequest, Empty]
	loadNamespace   *connect.Client[NamespaceRequest, Empty]
}

// NewClient builds a client for the server at baseURL, e.g.
// http://127.0.0.1:3000.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)

	return &Client{
		createNamespace: connect.NewClient[NamespaceRequest, Empty](httpClient, baseURL+CreateNamespaceProcedure, opts...),
		get:             connect.NewClient[KeyRequest, ValueResponse](httpClient, baseURL+GetProcedure, opts...),
		put:             connect.NewClient[PutRequest, ValueResponse](httpClient, baseURL+PutProcedure, opts...),
		delete:          connect.NewClient[KeyRequest, ValueResponse](httpClient, baseURL+DeleteProcedure, opts...),
		saveNamespace:   connect.NewClient[NamespaceRequest, Empty](httpClient, baseURL+SaveNamespaceProcedure, opts...),
		loadNamespace:   connect.NewClient[NamespaceRequest, Empty](httpClient, baseURL+LoadNamespaceProcedure, opts...),
	}
}

func (c *Client) CreateNamespace(ctx context.Context, name string) error {
	_, err := c.createNamespace.CallUnary(ctx, connect.NewRequest(&NamespaceRequest{Namespace: name}))
	if err != nil {
		return fromConnectError(CreateNamespaceProcedure, err)
	}
	return nil
}

// Get returns the stored value.
func (c *Client) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	resp, err := c.get.CallUnary(ctx, connect.NewRequest(&KeyRequest{Namespace: namespace, Key: key}))
	if err != nil {
		return nil, fromConnectError(GetProcedure, err)
	}
	return valueOf(resp.Msg), nil
}

// Put stores value and returns the previous value, or nil if there was none.
func (c *Client) Put(ctx context.Context, namespace, key string, value []byte) ([]byte, error) {
	if value == nil {
		value = []byte{}
	}
	resp, err := c.put.CallUnary(ctx, connect.NewRequest(&PutRequest{Namespace: namespace, Key: key, Value: value}))
	if err != nil {
		return nil, fromConnectError(PutProcedure, err)
	}
	return valueOf(resp.Msg), nil
}

// Delete removes key and returns the removed value.
func (c *Client) Delete(ctx context.Context, namespace, key string) ([]byte, error) {
	resp, err := c.delete.CallUnary(ctx, connect.NewRequest(&KeyRequest{Namespace: namespace, Key: key}))
	if err != nil {
		return nil, fromConnectError(DeleteProcedure, err)
	}
	return valueOf(resp.Msg), nil
}

func (c *Client) SaveNamespace(ctx context.Context, namespace string) error {
	_, err := c.saveNamespace.CallUnary(ctx, connect.NewRequest(&NamespaceRequest{Namespace: namespace}))
	if err != nil {
		return fromConnectError(SaveNamespaceProcedure, err)
	}
	return nil
}

func (c *Client) LoadNamespace(ctx context.Context, namespace string) error {
	_, err := c.loadNamespace.CallUnary(ctx, connect.NewRequest(&NamespaceRequest{Namespace: namespace}))
	if err != nil {
		return fromConnectError(LoadNamespaceProcedure, err)
	}
	return nil
}

// valueOf keeps the found/absent distinction that JSON's omitempty loses
// for empty values.
func valueOf(msg *ValueResponse) []byte {
	if !msg.Found {
		return nil
	}
	if msg.Value == nil {
		return []byte{}
	}
	return msg.Value
}
