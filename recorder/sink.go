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

package recorder

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/ivpid/dto"
	"github.com/zintix-labs/ivpid/errs"
)

// CSVHeader 為 CSV 輸出的欄位順序。
var CSVHeader = []string{"seed", "method", "pid", "nature", "ability", "hp", "atk", "def", "spa", "spd", "spe", "hp_type", "hp_power"}

// FileSink 把結果寫到檔案或串流；寫入錯誤保留到 Close 時回傳。
type FileSink struct {
	write   func(dto.ResultDTO) error
	flush   func() error
	closers []io.Closer
	err     error
}

// Emit 寫入一筆結果；發生錯誤後的結果會被略過。
func (f *FileSink) Emit(r dto.Result) {
	if f.err != nil {
		return
	}
	f.err = f.write(dto.NewResultDTO(r))
}

// Close 依序 flush、關閉壓縮層與檔案，回傳第一個錯誤。
func (f *FileSink) Close() error {
	err := f.err
	if ferr := f.flush(); err == nil {
		err = ferr
	}
	for i := len(f.closers) - 1; i >= 0; i-- {
		if cerr := f.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	f.closers = nil
	if err != nil {
		return errs.Wrap(err, "close result output")
	}
	return nil
}

// NewCSVSink 以 CSV 格式寫入 w，先寫出表頭。
func NewCSVSink(w io.Writer) *FileSink {
	cw := csv.NewWriter(w)
	f := &FileSink{
		write: func(d dto.ResultDTO) error {
			return cw.Write(csvRecord(d))
		},
		flush: func() error {
			cw.Flush()
			return cw.Error()
		},
	}
	f.err = cw.Write(CSVHeader)
	return f
}

// NewJSONLSink 每筆結果一行 JSON。
func NewJSONLSink(w io.Writer) *FileSink {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	return &FileSink{
		write: func(d dto.ResultDTO) error { return enc.Encode(d) },
		flush: bw.Flush,
	}
}

// NewTextSink 每筆結果一行可讀文字。
func NewTextSink(w io.Writer) *FileSink {
	bw := bufio.NewWriter(w)
	return &FileSink{
		write: func(d dto.ResultDTO) error {
			_, err := fmt.Fprintf(bw, "seed=%s %s pid=%s %s ability=%d ivs=%d/%d/%d/%d/%d/%d hp=%s %d\n",
				d.Seed, d.Method, d.PID, d.Nature, d.Ability,
				d.IVs[0], d.IVs[1], d.IVs[2], d.IVs[3], d.IVs[4], d.IVs[5], d.HPType, d.HPPower)
			return err
		},
		flush: bw.Flush,
	}
}

// Create 建立輸出檔。副檔名決定格式：.csv / .jsonl / 其他為文字；
// 再加上 .zst 時以 zstd 壓縮。
func Create(path string) (*FileSink, error) {
	fh, err := os.Create(path)
	if err != nil {
		return nil, errs.Wrap(err, "create result output")
	}
	closers := []io.Closer{fh}
	var w io.Writer = fh

	name := strings.ToLower(path)
	if base, ok := strings.CutSuffix(name, ".zst"); ok {
		zw, err := zstd.NewWriter(fh)
		if err != nil {
			fh.Close()
			return nil, errs.Wrap(err, "create zstd writer")
		}
		closers = append(closers, zw)
		w = zw
		name = base
	}

	var f *FileSink
	switch {
	case strings.HasSuffix(name, ".csv"):
		f = NewCSVSink(w)
	case strings.HasSuffix(name, ".jsonl"), strings.HasSuffix(name, ".json"):
		f = NewJSONLSink(w)
	default:
		f = NewTextSink(w)
	}
	f.closers = closers
	return f, nil
}

// Open 開啟結果檔供讀取，.zst 會自動解壓。
func Open(path string) (io.ReadCloser, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(err, "open result output")
	}
	if !strings.HasSuffix(strings.ToLower(path), ".zst") {
		return fh, nil
	}
	zr, err := zstd.NewReader(fh)
	if err != nil {
		fh.Close()
		return nil, errs.Wrap(err, "create zstd reader")
	}
	return &zstdReadCloser{Decoder: zr, file: fh}, nil
}

type zstdReadCloser struct {
	*zstd.Decoder
	file *os.File
}

func (z *zstdReadCloser) Close() error {
	z.Decoder.Close()
	return z.file.Close()
}

func csvRecord(d dto.ResultDTO) []string {
	rec := make([]string, 0, len(CSVHeader))
	rec = append(rec, d.Seed, d.Method, d.PID, d.Nature, strconv.Itoa(d.Ability))
	for _, v := range d.IVs {
		rec = append(rec, strconv.Itoa(v))
	}
	return append(rec, d.HPType, strconv.Itoa(d.HPPower))
}
