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

// Package logger 組裝 CLI 與掃描器使用的 slog.Logger。
//
// 工作協程會在每筆結果確認時寫 Debug 日誌，所以提供 AsyncHandler 讓寫出不阻塞搜尋迴圈。
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// enum LogMode
type LogMode uint8

const (
	ModeDev LogMode = iota
	ModeProd
	ModeSilence
)

func (m LogMode) String() string {
	switch m {
	case ModeDev:
		return "dev"
	case ModeProd:
		return "prod"
	case ModeSilence:
		return "silence"
	}
	return "unknown"
}

// ParseMode 解析 "dev" / "prod" / "silence"，其他值回傳 ModeDev 與 false。
func ParseMode(s string) (LogMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "debug", "":
		return ModeDev, true
	case "prod", "json":
		return ModeProd, true
	case "silence", "quiet", "off":
		return ModeSilence, true
	}
	return ModeDev, false
}

// NewLogger 以指定輸出建立 logger；w 為 nil 時寫到 stderr，stdout 留給結果輸出。
func NewLogger(mode LogMode, w io.Writer) *slog.Logger {
	return slog.New(buildHandler(mode, w))
}

// NewAsync 與 NewLogger 相同，但外層包一個 AsyncHandler。
// 呼叫者結束前需 Close，佇列中的記錄才會寫完。
func NewAsync(size int, mode LogMode, w io.Writer) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(buildHandler(mode, w), size)
	return slog.New(ah), ah
}

// AsyncHandler 把記錄排入佇列，由單一背景協程交給下層 handler 寫出。
//
// 掃描協程每確認一筆結果就寫一行 Debug，Handle 只做入列，不等待 I/O；
// 佇列滿或已 Close 時該筆記錄直接丟棄並計入 Dropped。
// slog.Logger 不理會 Handle 的 error，寫出失敗由下層 handler 自行處理。
type AsyncHandler struct {
	next slog.Handler
	q    *logQueue
}

type logQueue struct {
	items   chan queued
	stop    chan struct{}
	stopped sync.Once
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

// queued 連同寫出它的 handler 一起入列，WithAttrs / WithGroup 產生的 handler 共用同一個佇列。
type queued struct {
	ctx context.Context
	h   slog.Handler
	r   slog.Record
}

func (it queued) write() {
	_ = it.h.Handle(it.ctx, it.r)
}

func newLogQueue(size int) *logQueue {
	q := &logQueue{
		items: make(chan queued, size),
		stop:  make(chan struct{}),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

func (q *logQueue) run() {
	defer q.wg.Done()
	for {
		select {
		case it := <-q.items:
			it.write()
		case <-q.stop:
			q.drain()
			return
		}
	}
}

func (q *logQueue) drain() {
	for {
		select {
		case it := <-q.items:
			it.write()
		default:
			return
		}
	}
}

func (q *logQueue) push(it queued) {
	select {
	case <-q.stop:
		q.dropped.Add(1)
		return
	default:
	}
	select {
	case q.items <- it:
	default:
		q.dropped.Add(1)
	}
}

// NewAsyncHandler 以容量 size 的佇列包裝 next；size <= 0 時取 1024。
func NewAsyncHandler(next slog.Handler, size int) *AsyncHandler {
	if next == nil {
		next = buildHandler(ModeDev, nil)
	}
	if size <= 0 {
		size = 1024
	}
	return &AsyncHandler{next: next, q: newLogQueue(size)}
}

// Dropped 回傳沒有寫出的記錄數。
func (h *AsyncHandler) Dropped() uint64 {
	return h.q.dropped.Load()
}

// Close 停止收件並寫完佇列；可重複呼叫。
func (h *AsyncHandler) Close() {
	h.q.stopped.Do(func() { close(h.q.stop) })
	h.q.wg.Wait()
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	// Record 的屬性可能與呼叫端共用底層陣列，跨協程前先 Clone
	h.q.push(queued{ctx: ctx, h: h.next, r: r.Clone()})
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), q: h.q}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), q: h.q}
}

func buildHandler(logmode LogMode, w io.Writer) slog.Handler {
	switch logmode {
	case ModeProd:
		if w == nil {
			w = os.Stderr
		}
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	case ModeSilence:
		return slog.NewTextHandler(io.Discard, nil)
	default:
		if w == nil {
			w = os.Stderr
		}
		return slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}
}
