package apperr

import "errors"

// 核心错误分类，handler 层统一映射为 HTTP 状态码
var (
	ErrInvalidInput       = errors.New("invalid input")       // 400
	ErrInvalidCredentials = errors.New("invalid credentials") // 400，不区分过期还是错误
	ErrUnauthenticated    = errors.New("unauthenticated")     // 401
	ErrForbidden          = errors.New("forbidden")           // 403
	ErrNotFound           = errors.New("not found")           // 404
	ErrConflict           = errors.New("conflict")            // 409
)

// Error 带分类的业务错误
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// E 在错误分类上附加说明信息
func E(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}
