package router

import "errors"

// Compile-time configuration errors
var (
	ErrUnknownConvertor   = errors.New("unknown path convertor")
	ErrConvertorExists    = errors.New("convertor already registered")
	ErrInvalidConvertor   = errors.New("invalid convertor registration")
	ErrDuplicateParam     = errors.New("duplicate parameter in pattern")
	ErrDuplicateRouteName = errors.New("duplicate route name")
	ErrInvalidPattern     = errors.New("invalid route pattern")
	ErrInvalidPrefix      = errors.New("invalid subpath prefix")
)

// URL building errors
var (
	ErrRouteNotFound = errors.New("route not found")
	ErrMissingParam  = errors.New("missing route parameter")
	ErrBuildParam    = errors.New("cannot render route parameter")
)
