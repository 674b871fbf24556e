// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

type ErrorType int32

const (
	SystemError ErrorType = 0
	InputError  ErrorType = 1
)

var ErrorTypeName = map[ErrorType]string{
	SystemError: "system_error",
	InputError:  "input_error",
}

func (err ErrorType) String() string {
	return ErrorTypeName[err]
}

// 叶子错误统一定义在这里。
// WARN: 新增错误前请先确认下面已有的错误能否满足需要。
// 命名规则：Err + 相关前缀 + 错误名
var (
	// Preset 相关
	ErrPresetInvalid = newJSONError("invalid json preset", 100, false, WithErrorType(InputError))

	// 编解码相关
	ErrSerialization   = newJSONError("json serialization failed", 200, false)
	ErrDeserialization = newJSONError("json deserialization failed", 201, false, WithErrorType(InputError))
	ErrNodeInvalid     = newJSONError("invalid json node", 202, false, WithErrorType(InputError))

	// Enum 相关
	ErrEnumInvalid = newJSONError("invalid enum definition", 300, false, WithErrorType(InputError))

	// 参数相关
	ErrParameterInvalid = newJSONError("invalid parameter", 1100, false, WithErrorType(InputError))
	ErrParameterMissing = newJSONError("missing parameter", 1101, false, WithErrorType(InputError))

	// General
	ErrOperationNotSupported = newJSONError("unsupported operation", 3000, false)

	// 不要导出，仅用于把未知错误转换为 jsonError。
	errUnexpected = newJSONError("unexpected error", (1<<16)-1, false)
)

// markedErrors 为通过 errors.Mark 附着在外部错误上的分类，
// 这些错误的 Cause 仍是底层库返回的原始错误。
var markedErrors = []jsonError{
	ErrSerialization,
	ErrDeserialization,
	ErrNodeInvalid,
}

type errorOption func(*jsonError)

func WithErrorType(etype ErrorType) errorOption {
	return func(err *jsonError) {
		err.errType = etype
	}
}

type jsonError struct {
	msg       string
	detail    string
	retriable bool
	errCode   int32
	errType   ErrorType
}

func newJSONError(msg string, code int32, retriable bool, options ...errorOption) jsonError {
	err := jsonError{
		msg:       msg,
		detail:    msg,
		retriable: retriable,
		errCode:   code,
	}

	for _, option := range options {
		option(&err)
	}
	return err
}

func (e jsonError) code() int32 {
	return e.errCode
}

func (e jsonError) Error() string {
	return e.msg
}

func (e jsonError) Detail() string {
	return e.detail
}

func (e jsonError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(jsonError); ok {
		return e.errCode == cause.errCode
	}
	return false
}

type multiErrors struct {
	errs []error
}

func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	// 多个错误的 cause 定义为最后一个错误
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}
