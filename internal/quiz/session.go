package quiz

import (
	"bufio"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/conorfennell/flashdeck/internal/audit"
	"github.com/conorfennell/flashdeck/internal/config"
	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/render"
)

// Exit tokens honoured at any answer prompt. Either finishes the session
// immediately with the results accumulated so far.
var exitTokens = map[string]bool{"exit()": true, "quit()": true}

// hintToken reveals the record's description without advancing the question.
const hintToken = "?"

const letters = "abcdefghijklmnopqrstuvwxyz"

// Correct reports whether a chosen option text matches the canonical answer.
// Comparison happens on stripped display text, case-insensitively, after
// trimming whitespace; it is a pure function of its inputs.
func Correct(chosen, correct string) bool {
	return strings.EqualFold(render.Strip(chosen), render.Strip(correct))
}

// Session runs interactive quiz rounds against an injectable input stream
// and renderer, so tests can drive it with scripted input.
type Session struct {
	cfg  *config.Config
	rend *render.Renderer
	in   *bufio.Scanner
	rng  *rand.Rand
	user string
}

// NewSession wires a session. rng may be seeded for reproducible option
// placement in tests.
func NewSession(cfg *config.Config, rend *render.Renderer, in io.Reader, rng *rand.Rand) *Session {
	return &Session{
		cfg:  cfg,
		rend: rend,
		in:   bufio.NewScanner(in),
		rng:  rng,
		user: audit.CurrentUser(),
	}
}

// Run presents every pooled question in order, scores the answers, renders
// the end-of-session summary, and returns the report. The distractor pool
// draws from all, which may be a superset of pool (union of banks).
// Cancelling at question k yields a report with exactly the k-1 answered
// results.
func (s *Session) Run(bank string, pool, all []domain.Record, nOpts int) domain.Report {
	// One label per letter; more options than labels would make some
	// unselectable.
	if nOpts > len(letters) {
		nOpts = len(letters)
	}
	started := time.Now()
	var results []domain.Result
	score := 0

	for i, rec := range pool {
		index := i + 1
		opts := Options(rec, all, s.cfg, nOpts, s.rng)

		s.rend.Question(index, rec.Question)
		labels := make([]string, len(opts))
		byLabel := make(map[string]string, len(opts))
		for j, opt := range opts {
			labels[j] = string(letters[j])
			byLabel[labels[j]] = opt
			s.rend.Option(labels[j], opt)
		}
		if rec.Desc != "" {
			s.rend.Hint("   (%s để xem gợi ý)", hintToken)
		}

		chosen, exited := s.await(byLabel, labels, rec)
		if exited {
			s.rend.Warn("🔚 Tổng kết sau %d câu...", len(results))
			break
		}

		ok := Correct(chosen, rec.Answer)
		if ok {
			score++
		}
		results = append(results, domain.Result{
			Index:    index,
			Question: render.Strip(rec.Question),
			Chosen:   render.Strip(chosen),
			Correct:  render.Strip(rec.Answer),
			OK:       ok,
			Desc:     render.Strip(rec.Desc),
			Ref:      render.Strip(rec.Ref),
		})
		s.feedback(ok, rec, score)
	}

	report := domain.NewReport(started, s.user, bank, results)
	s.summary(report)
	return report
}

// await blocks until the user enters an option label, the matching option
// text, the hint token, or an exit token. Anything else re-prompts without
// advancing; end of input counts as exit.
func (s *Session) await(byLabel map[string]string, labels []string, rec domain.Record) (string, bool) {
	for {
		s.rend.Printf("👉 Chọn (%s, %s hiện gợi ý, exit() dừng): ",
			strings.Join(labels, "/"), hintToken)
		if !s.in.Scan() {
			return "", true
		}
		input := strings.TrimSpace(s.in.Text())
		lower := strings.ToLower(input)

		if exitTokens[lower] {
			return "", true
		}
		if input == hintToken {
			if rec.Desc != "" {
				s.rend.Hint("💡 %s", render.Expand(rec.Desc))
			} else {
				s.rend.Hint("💡 Câu này không có gợi ý.")
			}
			continue
		}
		if opt, ok := byLabel[lower]; ok {
			return opt, false
		}
		// Typing the full answer text is accepted as picking that option.
		for _, opt := range byLabel {
			if strings.EqualFold(render.Strip(opt), render.Strip(input)) {
				return opt, false
			}
		}
		s.rend.Warn("⚠️ Lựa chọn không hợp lệ, nhập lại đi!")
	}
}

func (s *Session) feedback(ok bool, rec domain.Record, score int) {
	if ok {
		s.rend.Success("✅ Chính xác! %s", render.Expand(rec.Answer))
	} else {
		s.rend.Failure("❌ Sai! ➤ Đáp án đúng: %s", render.Expand(rec.Answer))
	}
	if rec.Desc != "" {
		s.rend.Hint("💡 Mô tả:\n%s", render.Expand(rec.Desc))
	}
	if rec.Ref != "" {
		s.rend.Hint("🔗 Tham chiếu:\n%s", render.Expand(rec.Ref))
	}
	s.rend.Printf("Số câu đúng hiện tại: %d\n", score)
}

func (s *Session) summary(rep domain.Report) {
	s.rend.Title("🎯 BẢNG ĐIỂM CHI TIẾT")
	for _, res := range rep.Results {
		mark := "❌"
		if res.OK {
			mark = "✅"
		}
		s.rend.Printf("%3d)  %s   %s\n", res.Index, mark, res.Correct)
	}
	s.rend.Printf("%s\n", strings.Repeat("-", 60))
	s.rend.Printf("✅ Đúng: %d    ❌ Sai: %d    📊 Tỉ lệ: %.1f%%\n",
		rep.Score, rep.Wrong, rep.Percent)
	s.rend.Printf("%s\n", render.ProgressBar(rep.Percent, 30))
}
