// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errs 定義專案統一的分級錯誤。
//
// 搜尋核心本身沒有錯誤路徑（全部是定義域完整的整數運算），
// 錯誤只會出現在外圍：設定檔解析、輸出寫檔、工作協程 panic 與取消。
package errs

import (
	"context"
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，讓最上層知道問題的嚴重程度
type ErrLevel uint8

const (
	None  ErrLevel = iota
	Fatal          // 結果不可信，應中止
	Warn           // 輸入不合法或被取消，呼叫端可修正後重試
	Log            // 僅供紀錄
)

func (l ErrLevel) String() string {
	switch l {
	case Fatal:
		return "fatal"
	case Warn:
		return "warn"
	case Log:
		return "log"
	default:
		return ""
	}
}

// E 是統一的錯誤型別。
// Message 為主訊息；Extra 為呼叫端追加的上下文；Cause 串接下層錯誤。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
}

// Error 實作 error 介面。
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", e.ErrLv, e.Message)
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E { return New(Fatal, msg) }
func NewWarn(msg string) *E  { return New(Warn, msg) }

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// Wrap 以訊息包裝底層錯誤。
//
// 若 cause 已是 *E 則沿用其等級；標準庫或三方依賴的錯誤一律視為 Fatal，
// 唯一例外是 context 取消／逾時，視為 Warn（使用者主動中斷不是故障）。
func Wrap(cause error, msg string) *E {
	r := New(levelOf(cause), msg)
	r.Cause = cause
	return r
}

// WrapWithExtra 與 Wrap 相同，另外附加上下文。
func WrapWithExtra(cause error, msg string, extra string) *E {
	r := Wrap(cause, msg)
	r.Extra = extra
	return r
}

func levelOf(cause error) ErrLevel {
	var e *E
	if errors.As(cause, &e) {
		return e.ErrLv
	}
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		return Warn
	}
	return Fatal
}

// AsErr 取出錯誤鏈中的 *E。
func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsFatal 回報 err 是否為（或包裝了）Fatal 等級的錯誤。
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	e, ok := AsErr(err)
	return !ok || e.ErrLv == Fatal
}
