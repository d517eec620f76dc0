package response

// AppError 带业务状态码的错误，Err 为可选的底层原因
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

// ServerSide 5xx 类错误，需要按 error 级别记录
func (e *AppError) ServerSide() bool { return e.Code >= CodeInternal }

// WrapError 包装错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
