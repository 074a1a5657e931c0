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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/zintix-labs/ivpid"
	"github.com/zintix-labs/ivpid/errs"
	"github.com/zintix-labs/ivpid/logger"
	"github.com/zintix-labs/ivpid/profile"
	"github.com/zintix-labs/ivpid/recorder"
	"github.com/zintix-labs/ivpid/sdk/perf"
	"github.com/zintix-labs/ivpid/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ivFlags = [6]string{"hp", "atk", "def", "spa", "spd", "spe"}

type config struct {
	profile   string
	ivs       [6]int
	exact     bool
	nature    string
	ability   int
	hptype    string
	hppower   int
	tid       int
	sid       int
	methods   string
	worker    int
	seed      string
	pid       string
	out       string
	format    string
	logmode   string
	pprofmode string
	quiet     bool
	set       map[string]bool // 使用者明確給定的旗標
}

func bindVar(args []string) (*config, error) {
	cfg := &config{set: map[string]bool{}}
	fs := flag.NewFlagSet("ivpid", flag.ContinueOnError)

	fs.StringVar(&cfg.profile, "profile", "", "profile file (.yaml/.json/.toml); flags given explicitly override it")
	for i, name := range ivFlags {
		fs.IntVar(&cfg.ivs[i], name, 0, name+" iv (0-31)")
	}
	fs.BoolVar(&cfg.exact, "exact", false, "match ivs exactly instead of as minimums")
	fs.StringVar(&cfg.nature, "nature", "any", "nature name or number (0-24)")
	fs.IntVar(&cfg.ability, "ability", 2, "ability slot 0/1, 2 for any")
	fs.StringVar(&cfg.hptype, "hptype", "any", "hidden power type name or number (0-15)")
	fs.IntVar(&cfg.hppower, "hppower", -1, "minimum hidden power (30-70), -1 for any")
	fs.IntVar(&cfg.tid, "tid", -1, "trainer id; with -sid only shiny results are kept")
	fs.IntVar(&cfg.sid, "sid", -1, "secret id")
	fs.StringVar(&cfg.methods, "methods", "nds", "nds, common, all, chained, or a list like m1,m2")
	fs.IntVar(&cfg.worker, "worker", runtime.NumCPU(), "number of workers")
	fs.StringVar(&cfg.seed, "seed", "", "hex state right after the pid-low call: list what it generates instead of searching")
	fs.StringVar(&cfg.pid, "pid", "", "hex pid: find seeds producing it instead of a full scan")
	fs.StringVar(&cfg.out, "o", "-", "result output: - for stdout, or a .csv/.jsonl/.txt path, optionally with .zst")
	fs.StringVar(&cfg.format, "format", "table", "report format: table, json, yaml")
	fs.StringVar(&cfg.logmode, "log", "silence", "log mode: dev, prod, silence")
	fs.StringVar(&cfg.pprofmode, "p", "", "pprof: "+strings.Join(perf.Modes[1:], ", "))
	fs.BoolVar(&cfg.quiet, "q", false, "hide the progress bar")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })
	return cfg, nil
}

// given 回報旗標是否生效：沒有設定檔時一律生效，有設定檔時只有明確給定的才覆寫。
func (cfg *config) given(name string) bool {
	return cfg.profile == "" || cfg.set[name]
}

// search 組出 profile.File 後交給 profile 包驗證，與設定檔走同一條路徑。
func (cfg *config) search() (*profile.Search, error) {
	f := &profile.File{}
	if cfg.profile != "" {
		var err error
		if f, err = profile.LoadFile(cfg.profile); err != nil {
			return nil, err
		}
	}
	anyIV := false
	for _, name := range ivFlags {
		anyIV = anyIV || cfg.set[name]
	}
	if cfg.profile == "" || anyIV {
		ivs := make([]int, 6)
		copy(ivs, f.IVs)
		for i, name := range ivFlags {
			if cfg.given(name) {
				ivs[i] = cfg.ivs[i]
			}
		}
		f.IVs = ivs
	}
	if cfg.given("exact") {
		f.Exact = cfg.exact
	}
	if cfg.given("nature") {
		f.Nature = cfg.nature
	}
	if cfg.given("hptype") {
		f.HPType = cfg.hptype
	}
	if cfg.given("ability") {
		f.Ability = &cfg.ability
	}
	if cfg.given("hppower") {
		f.HPPower = &cfg.hppower
	}
	if cfg.set["tid"] || cfg.set["sid"] {
		f.TID, f.SID = &cfg.tid, &cfg.sid
	}
	if cfg.given("methods") {
		f.Methods = cfg.methods
	}
	if cfg.given("worker") {
		f.Workers = cfg.worker
	}
	s, err := f.Search()
	if err != nil {
		return nil, err
	}
	if s.Workers == 0 {
		s.Workers = runtime.NumCPU()
	}
	return s, nil
}

func parseHex32(name, s string) (uint32, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, errs.Warnf("%s must be a 32-bit hex number: %q", name, s)
	}
	return uint32(v), nil
}

// 這裡解析並分支要執行的搜尋
func execute(cfg *config) error {
	s, err := cfg.search()
	if err != nil {
		return err
	}
	mode, err := ivpid.ParseMode(s.Methods)
	if err != nil {
		return err
	}
	var render stats.ReportRender
	if cfg.format != "table" {
		if render = stats.RenderFor(cfg.format); render == nil {
			return errs.Warnf("unknown report format %q", cfg.format)
		}
	}
	lm, ok := logger.ParseMode(cfg.logmode)
	if !ok {
		return errs.Warnf("unknown log mode %q", cfg.logmode)
	}
	log, ah := logger.NewAsync(4096, lm, nil)
	defer func() {
		ah.Close()
		if n := ah.Dropped(); n > 0 {
			fmt.Fprintf(os.Stderr, "log queue full: %d records dropped\n", n)
		}
	}()

	sc, err := ivpid.NewScanner(s.Profile, mode, s.Exact, log)
	if err != nil {
		return err
	}

	out, err := openOutput(cfg.out)
	if err != nil {
		return err
	}

	stderr, color := terminal()
	green, reset := "", ""
	if color {
		green, reset = "\033[1;32m", "\033[0m"
	}
	p := message.NewPrinter(language.English)

	var rep *ivpid.ScanReport
	var runErr error
	switch {
	case cfg.seed != "":
		seed, err := parseHex32("seed", cfg.seed)
		if err != nil {
			out.Close()
			return err
		}
		p.Fprintf(stderr, "%s[SEED:%08X] [MODE:%s]%s\n", green, seed, mode, reset)
		rep, runErr = sc.FromSeed(seed, out)
	case cfg.pid != "":
		pid, err := parseHex32("pid", cfg.pid)
		if err != nil {
			out.Close()
			return err
		}
		p.Fprintf(stderr, "%s[PID:%08X] [MODE:%s] [EXACT:%v] [SHINY:%v]%s\n", green, pid, mode, s.Exact, s.Profile.ShinyOnly(), reset)
		rep, runErr = sc.SearchPID(pid, out)
	default:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		p.Fprintf(stderr, "%s[WORKERS:%d] [MODE:%s] [EXACT:%v] [SHINY:%v] [STATES:%d]%s\n", green, s.Workers, mode, s.Exact, s.Profile.ShinyOnly(), uint64(ivpid.Blocks)*ivpid.BlockSize, reset)
		showpb := !cfg.quiet && isTerminal(os.Stderr)
		rep, runErr = sc.Scan(ctx, s.Workers, out, showpb)
	}

	if err := out.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if rep != nil {
		if render != nil {
			if err := rep.Stats.WriteWith(stderr, render); err != nil && runErr == nil {
				runErr = err
			}
		} else {
			rep.Stats.Fprint(stderr, rep.Used)
		}
	}
	return runErr
}

// 結果輸出；stdout 以文字格式逐行寫出。
func openOutput(path string) (*recorder.FileSink, error) {
	if path == "" || path == "-" {
		return recorder.NewTextSink(os.Stdout), nil
	}
	return recorder.Create(path)
}

func terminal() (io.Writer, bool) {
	if isTerminal(os.Stderr) {
		return colorable.NewColorableStderr(), true
	}
	return os.Stderr, false
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
