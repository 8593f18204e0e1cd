// Package rpc serves the registry as a Connect service and provides a
// typed client for it.
//
// The service is bidon.v1.KVService. Messages are plain Go structs encoded
// as JSON, so any Connect client, or curl, can call it:
//
//	curl -H 'Content-Type: application/json' \
//	    -d '{"namespace":"default","key":"foo"}' \
//	    http://127.0.0.1:3000/bidon.v1.KVService/Get
package rpc

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/tailored-agentic-units/bidon/messaging"
)

const ServiceName = "bidon.v1.KVService"

// Procedure paths.
const (
	CreateNamespaceProcedure = "/" + ServiceName + "/CreateNamespace"
	GetProcedure             = "/" + ServiceName + "/Get"
	PutProcedure             = "/" + ServiceName + "/Put"
	DeleteProcedure          = "/" + ServiceName + "/Delete"
	SaveNamespaceProcedure   = "/" + ServiceName + "/SaveNamespace"
	LoadNamespaceProcedure   = "/" + ServiceName + "/LoadNamespace"
)

var errMissingValue = errors.New("value is required")

// Store is the subset of the registry the service calls.
type Store interface {
	CreateNamespace(ctx context.Context, name string) error
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Put(ctx context.Context, namespace, key string, value []byte) ([]byte, error)
	Delete(ctx context.Context, namespace, key string) ([]byte, error)
	SaveNamespace(ctx context.Context, namespace string) error
	LoadNamespace(ctx context.Context, namespace string) error
}

type service struct {
	store Store
}

// NewHandler returns the path prefix to mount and the handler serving
// every procedure of the service.
func NewHandler(store Store, opts ...connect.HandlerOption) (string, http.Handler) {
	s := &service{store: store}
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(CreateNamespaceProcedure, connect.NewUnaryHandler(CreateNamespaceProcedure, s.createNamespace, opts...))
	mux.Handle(GetProcedure, connect.NewUnaryHandler(GetProcedure, s.get, opts...))
	mux.Handle(PutProcedure, connect.NewUnaryHandler(PutProcedure, s.put, opts...))
	mux.Handle(DeleteProcedure, connect.NewUnaryHandler(DeleteProcedure, s.delete, opts...))
	mux.Handle(SaveNamespaceProcedure, connect.NewUnaryHandler(SaveNamespaceProcedure, s.saveNamespace, opts...))
	mux.Handle(LoadNamespaceProcedure, connect.NewUnaryHandler(LoadNamespaceProcedure, s.loadNamespace, opts...))

	return "/" + ServiceName + "/", mux
}

func (s *service) createNamespace(ctx context.Context, req *connect.Request[NamespaceRequest]) (*connect.Response[Empty], error) {
	err := s.store.CreateNamespace(ctx, req.Msg.Namespace)
	if errors.Is(err, messaging.ErrFailure) {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func (s *service) get(ctx context.Context, req *connect.Request[KeyRequest]) (*connect.Response[ValueResponse], error) {
	value, err := s.store.Get(ctx, req.Msg.Namespace, req.Msg.Key)
	return valueResponse(value, err)
}

func (s *service) put(ctx context.Context, req *connect.Request[PutRequest]) (*connect.Response[ValueResponse], error) {
	if req.Msg.Value == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingValue)
	}
	previous, err := s.store.Put(ctx, req.Msg.Namespace, req.Msg.Key, req.Msg.Value)
	return valueResponse(previous, err)
}

func (s *service) delete(ctx context.Context, req *connect.Request[KeyRequest]) (*connect.Response[ValueResponse], error) {
	removed, err := s.store.Delete(ctx, req.Msg.Namespace, req.Msg.Key)
	return valueResponse(removed, err)
}

func (s *service) saveNamespace(ctx context.Context, req *connect.Request[NamespaceRequest]) (*connect.Response[Empty], error) {
	if err := s.store.SaveNamespace(ctx, req.Msg.Namespace); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func (s *service) loadNamespace(ctx context.Context, req *connect.Request[NamespaceRequest]) (*connect.Response[Empty], error) {
	if err := s.store.LoadNamespace(ctx, req.Msg.Namespace); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func valueResponse(value []byte, err error) (*connect.Response[ValueResponse], error) {
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ValueResponse{Value: value, Found: value != nil}), nil
}
