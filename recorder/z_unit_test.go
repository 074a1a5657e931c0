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

package recorder_test

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zintix-labs/ivpid/dto"
	"github.com/zintix-labs/ivpid/recorder"
	"github.com/zintix-labs/ivpid/sdk/method"
	"github.com/zintix-labs/ivpid/sdk/trait"
)

// seed 0 / Method 1 的結果：Naive、特性 0、覺醒力量 岩石 31
var seedZero = dto.Result{
	Seed:   0,
	Method: method.Method1,
	PID:    0xE97E0000,
	IVs:    trait.IVs{17, 19, 20, 13, 12, 16},
}

func TestResultRecorderEmitAndDone(t *testing.T) {
	r, err := recorder.NewResultRecorder("nds", true, 1, trait.NoShinyCheck)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	r.AddStates(65536)
	r.Emit(seedZero)
	r.Emit(seedZero)

	rep := r.Done()
	if rep.Summary.Results != 2 || rep.Summary.States != 65536 {
		t.Fatalf("summary got %+v", rep.Summary)
	}
	if rep.Summary.Candidates != 65536*2 {
		t.Fatalf("candidates got %d", rep.Summary.Candidates)
	}
	if rep.Summary.Shiny != 0 {
		t.Fatalf("shiny should not be counted when check is skipped")
	}
	d := rep.Dist
	if len(d.MethodLabel) != 1 || d.MethodLabel[0] != "Method 1" || d.MethodCount[0] != 2 {
		t.Fatalf("method dist got %v %v", d.MethodLabel, d.MethodCount)
	}
	if len(d.NatureLabel) != 1 || d.NatureLabel[0] != "Naive" {
		t.Fatalf("nature dist got %v", d.NatureLabel)
	}
	if len(d.HPTypeLabel) != 1 || d.HPTypeLabel[0] != "Rock" {
		t.Fatalf("hp type dist got %v", d.HPTypeLabel)
	}
	if len(d.HPPowerLabel) != 1 || d.HPPowerLabel[0] != 31 {
		t.Fatalf("hp power dist got %v", d.HPPowerLabel)
	}
	if d.IVTotalLabel[0] != 97 || rep.Summary.IVTotalMean != 97 {
		t.Fatalf("iv total got %v mean %v", d.IVTotalLabel, rep.Summary.IVTotalMean)
	}
}

func TestResultRecorderShiny(t *testing.T) {
	// PID E97E0000：高低半部 XOR 為 E97E，取同值的 TID^SID 即為異色
	r, _ := recorder.NewResultRecorder("nds", false, 1, 0xE97E&^7)
	r.Emit(seedZero)
	if got := r.Done().Summary.Shiny; got != 1 {
		t.Fatalf("shiny got %d want 1", got)
	}
}

func TestResultRecorderDirectCandidates(t *testing.T) {
	// 反向 PID 搜尋：4 個 Method 各 65536 個狀態，沒有最高位翻轉的加倍
	r, _ := recorder.NewResultRecorder("all", false, 4, trait.NoShinyCheck)
	r.AddCandidates(4 * 65536)
	r.Emit(seedZero)
	sum := r.Done().Summary
	if sum.States != 4*65536 || sum.Candidates != 4*65536 {
		t.Fatalf("direct candidates got states %d candidates %d", sum.States, sum.Candidates)
	}
	if want := 1.0 / (4 * 65536); sum.HitRate != want {
		t.Fatalf("hit rate got %v want %v", sum.HitRate, want)
	}

	// 與全域掃描的紀錄合併時兩種計數各自累加
	scan, _ := recorder.NewResultRecorder("all", false, 4, trait.NoShinyCheck)
	scan.AddStates(10)
	m, err := recorder.MergeResultRecorder([]*recorder.ResultRecorder{r, scan})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if got := m.Done().Summary.Candidates; got != 4*65536+10*2*4 {
		t.Fatalf("merged candidates got %d", got)
	}
}

func TestMergeResultRecorder(t *testing.T) {
	a, _ := recorder.NewResultRecorder("common", false, 3, trait.NoShinyCheck)
	b, _ := recorder.NewResultRecorder("common", false, 3, trait.NoShinyCheck)
	a.AddStates(10)
	b.AddStates(20)
	a.Emit(seedZero)
	other := seedZero
	other.Method = method.Method4
	b.Emit(other)

	m, err := recorder.MergeResultRecorder([]*recorder.ResultRecorder{a, b})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	rep := m.Done()
	if rep.Summary.Results != 2 || rep.Summary.States != 30 || rep.Summary.Candidates != 30*2*3 {
		t.Fatalf("merged summary got %+v", rep.Summary)
	}
	if len(rep.Dist.MethodLabel) != 2 {
		t.Fatalf("merged methods got %v", rep.Dist.MethodLabel)
	}

	c, _ := recorder.NewResultRecorder("nds", false, 1, trait.NoShinyCheck)
	if _, err := recorder.MergeResultRecorder([]*recorder.ResultRecorder{a, c}); err == nil {
		t.Fatalf("merging different modes should fail")
	}
	if _, err := recorder.MergeResultRecorder(nil); err == nil {
		t.Fatalf("merging nothing should fail")
	}
	if _, err := recorder.NewResultRecorder("nds", false, 0, 0); err == nil {
		t.Fatalf("zero methods per state should fail")
	}
}

func TestCSVSink(t *testing.T) {
	var buf bytes.Buffer
	s := recorder.NewCSVSink(&buf)
	s.Emit(seedZero)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows got %d want 2", len(rows))
	}
	want := []string{"00000000", "Method 1", "E97E0000", "Naive", "0", "17", "19", "20", "13", "12", "16", "Rock", "31"}
	for i := range want {
		if rows[1][i] != want[i] {
			t.Fatalf("col %s got %q want %q", recorder.CSVHeader[i], rows[1][i], want[i])
		}
	}
}

func TestTextSink(t *testing.T) {
	var buf bytes.Buffer
	s := recorder.NewTextSink(&buf)
	s.Emit(seedZero)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got, want := strings.TrimSpace(buf.String()), seedZero.String(); got != want {
		t.Fatalf("text got %q want %q", got, want)
	}
}

func TestCreateCompressed(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.csv.zst", "out.jsonl.zst", "out.jsonl"} {
		path := filepath.Join(dir, name)
		s, err := recorder.Create(path)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		s.Emit(seedZero)
		s.Emit(seedZero)
		if err := s.Close(); err != nil {
			t.Fatalf("close %s: %v", name, err)
		}

		rc, err := recorder.Open(path)
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}

		if strings.Contains(name, ".csv") {
			rows, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
			if err != nil || len(rows) != 3 {
				t.Fatalf("%s rows %d err %v", name, len(rows), err)
			}
			continue
		}
		sc := bufio.NewScanner(bytes.NewReader(raw))
		n := 0
		for sc.Scan() {
			var d dto.ResultDTO
			if err := json.Unmarshal(sc.Bytes(), &d); err != nil {
				t.Fatalf("%s decode: %v", name, err)
			}
			if d.PID != "E97E0000" {
				t.Fatalf("%s pid got %s", name, d.PID)
			}
			n++
		}
		if n != 2 {
			t.Fatalf("%s lines got %d want 2", name, n)
		}
	}
}
