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
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code 返回给定错误对应的错误码，nil 返回 0。
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	cause := errors.Cause(err)
	if specificErr, ok := cause.(jsonError); ok {
		return specificErr.code()
	}
	for _, marked := range markedErrors {
		if errors.Is(err, marked) {
			return marked.code()
		}
	}
	return errUnexpected.code()
}

func IsRetryableErr(err error) bool {
	if err, ok := err.(jsonError); ok {
		return err.retriable
	}

	return false
}

func GetErrorType(err error) ErrorType {
	if merr, ok := errors.Cause(err).(jsonError); ok {
		return merr.errType
	}
	for _, marked := range markedErrors {
		if errors.Is(err, marked) {
			return marked.errType
		}
	}
	return SystemError
}

// IsInputError 判断错误是否由调用方输入导致。
func IsInputError(err error) bool {
	return err != nil && GetErrorType(err) == InputError
}

// Preset related

func WrapErrPresetInvalid(preset any, msg ...string) error {
	err := wrapFields(ErrPresetInvalid, value("preset", preset))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Codec related

// WrapErrSerialization 保留底层库返回的原始错误，同时打上 ErrSerialization 标记。
// 错误消息中附带被序列化值的类型。
func WrapErrSerialization(cause error, v any) error {
	if cause == nil {
		return nil
	}
	return errors.Mark(errors.Wrapf(cause, "%s[type=%T]", ErrSerialization.msg, v), ErrSerialization)
}

// WrapErrDeserialization 保留底层库返回的原始错误，同时打上 ErrDeserialization 标记。
// target 为反序列化目标类型的名字。
func WrapErrDeserialization(cause error, target string) error {
	if cause == nil {
		return nil
	}
	return errors.Mark(errors.Wrapf(cause, "%s[target=%s]", ErrDeserialization.msg, target), ErrDeserialization)
}

func WrapErrNodeInvalid(cause error, msg ...string) error {
	if cause == nil {
		err := error(ErrNodeInvalid)
		if len(msg) > 0 {
			err = errors.Wrap(err, strings.Join(msg, "->"))
		}
		return err
	}
	err := errors.Wrap(cause, ErrNodeInvalid.msg)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return errors.Mark(err, ErrNodeInvalid)
}

// Enum related

func WrapErrEnumInvalid(enumType string, reason string) error {
	return wrapFieldsWithDesc(ErrEnumInvalid, reason, value("type", enumType))
}

// Parameter related

func WrapErrParameterInvalid[T any](expected, actual T, msg ...string) error {
	err := wrapFields(ErrParameterInvalid,
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParameterInvalidMsg(fmt string, args ...any) error {
	return errors.Wrapf(ErrParameterInvalid, fmt, args...)
}

func WrapErrParameterMissing[T any](param T, msg ...string) error {
	err := wrapFields(ErrParameterMissing,
		value("missing_param", param),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrOperationNotSupported(operation string, msg ...string) error {
	err := wrapFields(ErrOperationNotSupported, value("operation", operation))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func wrapFields(err jsonError, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.detail = err.msg
	return err
}

func wrapFieldsWithDesc(err jsonError, desc string, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.msg += ": " + desc
	err.detail = err.msg
	return err
}

type errorField interface {
	String() string
}

type valueField struct {
	name  string
	value any
}

func value(name string, value any) valueField {
	return valueField{
		name,
		value,
	}
}

func (f valueField) String() string {
	return fmt.Sprintf("%s=%v", f.name, f.value)
}
