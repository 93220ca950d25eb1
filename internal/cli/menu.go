// Package cli is the interactive menu shell. It owns prompting and screen
// flow only; all behaviour lives in the store, quiz, history, and gitsource
// packages.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/conorfennell/flashdeck/internal/audit"
	"github.com/conorfennell/flashdeck/internal/config"
	"github.com/conorfennell/flashdeck/internal/domain"
	"github.com/conorfennell/flashdeck/internal/gitsource"
	"github.com/conorfennell/flashdeck/internal/history"
	"github.com/conorfennell/flashdeck/internal/quiz"
	"github.com/conorfennell/flashdeck/internal/render"
	"github.com/conorfennell/flashdeck/internal/store"
)

const exitToken = "exit()"

// App wires the interactive shell together. History may be nil when the
// database could not be opened; everything else is required.
type App struct {
	cfg   *config.Config
	store *store.Store
	hist  *history.DB
	audit *audit.Logger
	rend  *render.Renderer
	in    *bufio.Scanner
	rng   *rand.Rand
}

// New builds the shell around an injectable input stream.
func New(cfg *config.Config, st *store.Store, hist *history.DB, auditLog *audit.Logger, rend *render.Renderer, in io.Reader, rng *rand.Rand) *App {
	return &App{
		cfg:   cfg,
		store: st,
		hist:  hist,
		audit: auditLog,
		rend:  rend,
		in:    bufio.NewScanner(in),
		rng:   rng,
	}
}

// Run loops the main menu until the user exits or input ends.
func (a *App) Run() {
	for {
		a.rend.Title("📚 FLASHDECK QUIZ")
		a.rend.Println(" 1) 🎯 Chơi theo bộ")
		a.rend.Println(" 2) 🌍 Chơi tất cả")
		a.rend.Println(" 3) 📋 Quản lý câu hỏi")
		a.rend.Println(" 4) 📂 Quản lý file")
		a.rend.Println(" 5) 🗒️  Lịch sử chơi")
		a.rend.Println(" 6) 🔄 Đồng bộ bộ câu hỏi từ xa")
		a.rend.Println(" 0) 🚪 Thoát")

		choice, ok := a.readLine("\n👉 Nhập lựa chọn: ")
		if !ok {
			return
		}
		a.audit.Log("MENU", choice)
		a.rend.Clear()

		switch choice {
		case "1":
			a.playOne()
		case "2":
			a.playAll()
		case "3":
			a.manageQuestions()
		case "4":
			a.manageFiles()
		case "5":
			a.showHistory()
		case "6":
			a.syncRemote()
		case "0":
			a.rend.Println("👋 Tạm biệt!")
			return
		default:
			a.rend.Warn("⚠️ Lựa chọn không hợp lệ.")
		}
	}
}

// readLine prompts and reads one trimmed line. ok is false when input ends.
func (a *App) readLine(prompt string) (string, bool) {
	a.rend.Printf("%s", prompt)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

// chooseBank lists the banks and prompts for one by number. ok is false when
// the user backs out.
func (a *App) chooseBank(action string) (string, bool) {
	banks, err := a.store.ListBanks()
	if err != nil {
		a.rend.Failure("❌ %v", err)
		return "", false
	}
	if len(banks) == 0 {
		a.rend.Warn("⚠️ Không có file câu hỏi nào.")
		return "", false
	}

	a.rend.Success("\n📂 Danh sách file:")
	for i, b := range banks {
		a.rend.Printf(" %2d) %-25s | %d câu hỏi\n", i+1, b.Name, b.Count)
	}

	for {
		input, ok := a.readLine(fmt.Sprintf("\n👉 Nhập số file để %s (hoặc %s): ", action, exitToken))
		if !ok || strings.EqualFold(input, exitToken) {
			return "", false
		}
		idx, err := strconv.Atoi(input)
		if err == nil && idx >= 1 && idx <= len(banks) {
			return banks[idx-1].Name, true
		}
		a.rend.Warn("⚠️ Lựa chọn không hợp lệ, nhập lại đi!")
	}
}

// chooseDifficulty offers the configured presets plus a default.
func (a *App) chooseDifficulty(def config.Difficulty) (config.Difficulty, bool) {
	names := make([]string, 0, len(a.cfg.Difficulties))
	for name := range a.cfg.Difficulties {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return a.cfg.Difficulties[names[i]].Questions < a.cfg.Difficulties[names[j]].Questions
	})

	a.rend.Printf("\n 0) Mặc định (%d flashcard, %d options)\n", def.Questions, def.Options)
	for i, name := range names {
		d := a.cfg.Difficulties[name]
		a.rend.Printf(" %d) %s (%d flashcard, %d options)\n", i+1, name, d.Questions, d.Options)
	}

	for {
		input, ok := a.readLine(fmt.Sprintf("\n👉 Chọn độ khó (hoặc %s): ", exitToken))
		if !ok || strings.EqualFold(input, exitToken) {
			return config.Difficulty{}, false
		}
		if input == "0" || input == "" {
			return def, true
		}
		idx, err := strconv.Atoi(input)
		if err == nil && idx >= 1 && idx <= len(names) {
			return a.cfg.Difficulties[names[idx-1]], true
		}
		a.rend.Warn("⚠️ Lựa chọn không hợp lệ, nhập lại đi!")
	}
}

func (a *App) playOne() {
	bank, ok := a.chooseBank("chơi")
	if !ok {
		return
	}
	diff, ok := a.chooseDifficulty(a.cfg.Single)
	if !ok {
		return
	}
	records, err := a.store.LoadBank(bank)
	if err != nil {
		a.rend.Failure("❌ %v", err)
		return
	}
	a.play(bank, records, records, diff)
}

func (a *App) playAll() {
	diff, ok := a.chooseDifficulty(a.cfg.All)
	if !ok {
		return
	}
	records, err := a.store.LoadAll()
	if err != nil {
		a.rend.Failure("❌ %v", err)
		return
	}
	a.play("tất cả", records, records, diff)
}

// play runs one session over the prepared records and persists its outcome.
func (a *App) play(bank string, records, all []domain.Record, diff config.Difficulty) {
	if len(records) == 0 {
		a.rend.Failure("❌ Không có câu hỏi.")
		return
	}
	pool := quiz.BuildPool(records, diff.Questions, a.rng)
	session := quiz.NewSession(a.cfg, a.rend, bufioReader(a.in), a.rng)
	report := session.Run(bank, pool, all, diff.Options)

	exportPath, err := quiz.Export(a.cfg.ExportDir, report)
	if err != nil {
		a.rend.Failure("❌ Không export được kết quả: %v", err)
	} else {
		a.rend.Success("✅ Đã export kết quả: %s", exportPath)
	}

	if a.hist != nil {
		if err := a.hist.InsertSession(report, exportPath); err != nil {
			slog.Warn("failed to record session history", "error", err)
		}
	}
}

// bufioReader adapts the shared scanner back into an io.Reader for the quiz
// session, so menu and session consume the same stream in order.
func bufioReader(sc *bufio.Scanner) io.Reader {
	return &scannerReader{sc: sc}
}

type scannerReader struct {
	sc  *bufio.Scanner
	buf []byte
}

func (r *scannerReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		if !r.sc.Scan() {
			return 0, io.EOF
		}
		r.buf = append([]byte(r.sc.Text()), '\n')
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

// listRecords shows a bank's records with display positions and returns them.
func (a *App) listRecords(bank string) ([]domain.Record, bool) {
	records, err := a.store.LoadBank(bank)
	if err != nil {
		a.rend.Failure("❌ %v", err)
		return nil, false
	}
	if len(records) == 0 {
		a.rend.Failure("❌ File trống.")
		return records, true
	}
	a.rend.Println("\n📋 DANH SÁCH CÂU HỎI:")
	for i, rec := range records {
		a.rend.Printf(" %2d) ❓ %s\n", i+1, render.Strip(rec.Question))
		a.rend.Printf("     ➤ %s\n", render.Strip(rec.Answer))
	}
	return records, true
}

// chooseRecord prompts for a record by its displayed position.
func (a *App) chooseRecord(records []domain.Record, action string) (domain.Record, bool) {
	for {
		input, ok := a.readLine(fmt.Sprintf("\n🔢 Nhập số để %s (hoặc %s): ", action, exitToken))
		if !ok || strings.EqualFold(input, exitToken) {
			return domain.Record{}, false
		}
		idx, err := strconv.Atoi(input)
		if err == nil && idx >= 1 && idx <= len(records) {
			return records[idx-1], true
		}
		a.rend.Warn("⚠️ Lựa chọn không hợp lệ, nhập lại đi!")
	}
}

func (a *App) manageQuestions() {
	for {
		a.rend.Title("📋 QUẢN LÝ NỘI DUNG")
		a.rend.Println(" 1) ➕ Thêm câu hỏi")
		a.rend.Println(" 2) 🗑️  Xoá câu hỏi")
		a.rend.Println(" 3) ✏️  Sửa toàn bộ nội dung")
		a.rend.Println(" 4) ✏️  Sửa câu hỏi")
		a.rend.Println(" 5) ✏️  Sửa đáp án")
		a.rend.Println(" 6) ✏️  Sửa mô tả")
		a.rend.Println(" 7) ✏️  Sửa tham chiếu")
		a.rend.Printf("Hoặc nhập %s để quay lại\n", exitToken)

		choice, ok := a.readLine("\n👉 Nhập lựa chọn: ")
		if !ok || strings.EqualFold(choice, exitToken) {
			a.rend.Clear()
			return
		}

		fieldByChoice := map[string]string{"4": "question", "5": "answer", "6": "desc", "7": "ref"}
		switch {
		case choice == "1":
			a.addQuestion()
		case choice == "2":
			a.deleteQuestion()
		case choice == "3":
			a.editQuestion()
		case fieldByChoice[choice] != "":
			a.editField(fieldByChoice[choice])
		default:
			a.rend.Warn("⚠️ Lựa chọn không hợp lệ.")
		}
	}
}

func (a *App) addQuestion() {
	bank, ok := a.chooseBank("thêm")
	if !ok {
		return
	}
	for {
		q, ok := a.readLine(fmt.Sprintf("\n❓ Nhập câu hỏi (hoặc %s): ", exitToken))
		if !ok || strings.EqualFold(q, exitToken) {
			return
		}
		ans, ok := a.readLine("✅ Nhập đáp án: ")
		if !ok || strings.EqualFold(ans, exitToken) {
			return
		}
		desc, ok := a.readLine("💡 Mô tả (có thể bỏ trống): ")
		if !ok {
			return
		}
		ref, ok := a.readLine("🔗 Reference (có thể bỏ trống): ")
		if !ok {
			return
		}

		rec := domain.Record{Question: q, Answer: ans, Desc: desc, Ref: ref}
		if _, err := a.store.AddRecord(bank, rec); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				a.rend.Warn("⚠️ Câu hỏi đã tồn tại, bỏ qua!")
			} else {
				a.rend.Failure("❌ %v", err)
			}
			continue
		}
		a.rend.Success("➕ Đã thêm câu hỏi mới.")
	}
}

func (a *App) deleteQuestion() {
	bank, ok := a.chooseBank("xoá")
	if !ok {
		return
	}
	records, ok := a.listRecords(bank)
	if !ok || len(records) == 0 {
		return
	}
	rec, ok := a.chooseRecord(records, "xoá")
	if !ok {
		return
	}
	if err := a.store.DeleteRecord(bank, rec.ID); err != nil {
		a.rend.Failure("❌ %v", err)
		return
	}
	a.rend.Success("🗑️ Đã xoá: %s", render.Strip(rec.Question))
}

func (a *App) editQuestion() {
	bank, ok := a.chooseBank("sửa")
	if !ok {
		return
	}
	records, ok := a.listRecords(bank)
	if !ok || len(records) == 0 {
		return
	}
	rec, ok := a.chooseRecord(records, "sửa")
	if !ok {
		return
	}

	// Blank input keeps the current value.
	prompts := []struct {
		label string
		value *string
	}{
		{"❓ Câu hỏi mới", &rec.Question},
		{"✅ Đáp án mới", &rec.Answer},
		{"💡 Mô tả mới", &rec.Desc},
		{"🔗 Reference mới", &rec.Ref},
	}
	for _, p := range prompts {
		input, ok := a.readLine(fmt.Sprintf("%s (cũ: %s): ", p.label, *p.value))
		if !ok {
			return
		}
		if input != "" {
			*p.value = input
		}
	}

	if err := a.store.UpdateRecord(bank, rec); err != nil {
		a.rend.Failure("❌ %v", err)
		return
	}
	a.rend.Success("✅ Đã sửa thành công.")
}

func (a *App) editField(field string) {
	bank, ok := a.chooseBank("sửa")
	if !ok {
		return
	}
	records, ok := a.listRecords(bank)
	if !ok || len(records) == 0 {
		return
	}
	rec, ok := a.chooseRecord(records, "sửa")
	if !ok {
		return
	}
	value, ok := a.readLine("✏️ Nhập giá trị mới: ")
	if !ok {
		return
	}
	if err := a.store.UpdateField(bank, rec.ID, field, value); err != nil {
		a.rend.Failure("❌ %v", err)
		return
	}
	a.rend.Success("✅ Đã sửa thành công.")
}

func (a *App) manageFiles() {
	for {
		a.rend.Title("📂 QUẢN LÝ FILE")
		a.rend.Println(" 1) ➕ Tạo file")
		a.rend.Println(" 2) 🗑️  Xoá file")
		a.rend.Println(" 3) ✏️  Đổi tên file")
		a.rend.Println(" 4) 📥 Import file .txt cũ")
		a.rend.Printf("Hoặc nhập %s để quay lại\n", exitToken)

		choice, ok := a.readLine("\n👉 Nhập lựa chọn: ")
		if !ok || strings.EqualFold(choice, exitToken) {
			a.rend.Clear()
			return
		}

		switch choice {
		case "1":
			a.createBank()
		case "2":
			a.deleteBank()
		case "3":
			a.renameBank()
		case "4":
			a.importLegacy()
		default:
			a.rend.Warn("⚠️ Lựa chọn không hợp lệ.")
		}
	}
}

func (a *App) createBank() {
	name, ok := a.readLine("📄 Nhập tên file mới (không cần .csv): ")
	if !ok || name == "" {
		return
	}
	if err := a.store.CreateBank(name); err != nil {
		if errors.Is(err, store.ErrBankExists) {
			a.rend.Warn("⚠️ File đã tồn tại.")
		} else {
			a.rend.Failure("❌ %v", err)
		}
		return
	}
	a.rend.Success("✅ Đã tạo %s.csv", strings.TrimSuffix(name, ".csv"))
}

func (a *App) deleteBank() {
	bank, ok := a.chooseBank("xoá")
	if !ok {
		return
	}
	confirm, ok := a.readLine(fmt.Sprintf("❓ Xoá %s? (y/n): ", bank))
	if !ok || !strings.EqualFold(confirm, "y") {
		return
	}
	if err := a.store.DeleteBank(bank); err != nil {
		a.rend.Failure("❌ %v", err)
		return
	}
	a.rend.Success("🗑️ Đã xoá file %s", bank)
}

func (a *App) renameBank() {
	bank, ok := a.chooseBank("đổi tên")
	if !ok {
		return
	}
	newName, ok := a.readLine("✏️ Nhập tên mới: ")
	if !ok || newName == "" {
		return
	}
	if err := a.store.RenameBank(bank, newName); err != nil {
		if errors.Is(err, store.ErrBankExists) {
			a.rend.Warn("⚠️ Tên file đã tồn tại.")
		} else {
			a.rend.Failure("❌ %v", err)
		}
		return
	}
	a.rend.Success("✅ Đã đổi tên %s", bank)
}

func (a *App) importLegacy() {
	path, ok := a.readLine("📥 Đường dẫn file .txt cũ: ")
	if !ok || path == "" {
		return
	}
	name, n, err := a.store.ImportLegacy(path)
	if err != nil {
		a.rend.Failure("❌ %v", err)
		return
	}
	a.rend.Success("✅ Đã import %d câu hỏi vào %s", n, name)
}

func (a *App) showHistory() {
	if a.hist == nil {
		a.rend.Warn("⚠️ Lịch sử không khả dụng.")
		return
	}

	sessions, err := a.hist.RecentSessions(10)
	if err != nil {
		a.rend.Failure("❌ %v", err)
		return
	}
	if len(sessions) == 0 {
		a.rend.Println("Chưa có phiên chơi nào.")
		return
	}

	a.rend.Title("🗒️ LỊCH SỬ GẦN ĐÂY")
	for _, s := range sessions {
		a.rend.Printf("%s  %-20s %d/%d (%.1f%%)\n",
			s.StartedAt.Format("2006-01-02 15:04"), s.Bank, s.Score, s.Total, s.Percent)
	}

	stats, err := a.hist.StatsByBank()
	if err != nil {
		a.rend.Failure("❌ %v", err)
		return
	}
	a.rend.Title("📊 THEO BỘ CÂU HỎI")
	for _, s := range stats {
		a.rend.Printf("%-20s %d phiên, tốt nhất %d, trung bình %.1f%%\n",
			s.Bank, s.Sessions, s.BestScore, s.AvgPercent)
	}
}

func (a *App) syncRemote() {
	if a.cfg.SyncRemote == "" {
		a.rend.Warn("⚠️ Chưa cấu hình sync_remote.")
		return
	}
	repoPath, err := gitsource.Sync(a.cfg.SyncRemote, a.cfg.SyncCacheDir)
	if err != nil {
		a.rend.Failure("❌ %v", err)
		return
	}
	added, updated, err := gitsource.Reconcile(repoPath, a.cfg.QuestionsDir)
	if err != nil {
		a.rend.Failure("❌ %v", err)
		return
	}
	a.audit.Log("SYNC", fmt.Sprintf("%s | %d mới, %d cập nhật", a.cfg.SyncRemote, added, updated))
	a.rend.Success("✅ Đồng bộ xong: %d bộ mới, %d cập nhật.", added, updated)
}
