package audit

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ContactAuditor appends contact mutations to a daily JSON-lines file
type ContactAuditor struct {
	logFile    string
	batchSize  int
	batchMu    sync.Mutex
	batchLogs  []AuditLog
	flushTimer *time.Timer
	seq        int
}

// NewContactAuditor creates a new ContactAuditor writing under logDir
func NewContactAuditor(logDir string) (*ContactAuditor, error) {
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}

	logFile := filepath.Join(logDir, fmt.Sprintf("contact_audit_%s.log", time.Now().Format("2006-01-02")))

	auditor := &ContactAuditor{
		logFile:   logFile,
		batchSize: 10,
		batchLogs: make([]AuditLog, 0, 10),
	}

	// flush every minute even if the batch is not full
	auditor.flushTimer = time.AfterFunc(time.Minute, func() {
		if err := auditor.Flush(); err != nil {
			slog.Error("flushing audit log", "file", logFile, "error", err)
		}
	})

	return auditor, nil
}

// LogFile returns the path of the file entries are written to.
func (a *ContactAuditor) LogFile() string {
	return a.logFile
}

// LogContactAction records an action; the batch is written once it is full
func (a *ContactAuditor) LogContactAction(action AuditAction, contactID int64, details map[string]interface{}) error {
	a.batchMu.Lock()
	a.seq++
	entry := AuditLog{
		ID:        fmt.Sprintf("audit_%d_%s_%d", contactID, time.Now().Format("20060102150405"), a.seq),
		ContactID: contactID,
		Action:    action,
		Timestamp: time.Now(),
		Details:   details,
	}
	a.batchLogs = append(a.batchLogs, entry)

	if len(a.batchLogs) >= a.batchSize {
		a.batchMu.Unlock()
		return a.Flush()
	}
	a.batchMu.Unlock()

	return nil
}

// Flush writes all pending audit logs to the file
func (a *ContactAuditor) Flush() error {
	a.batchMu.Lock()
	if len(a.batchLogs) == 0 {
		a.batchMu.Unlock()
		return nil
	}

	if a.flushTimer != nil {
		a.flushTimer.Reset(time.Minute)
	}

	logsToFlush := make([]AuditLog, len(a.batchLogs))
	copy(logsToFlush, a.batchLogs)
	a.batchLogs = a.batchLogs[:0]
	a.batchMu.Unlock()

	file, err := os.OpenFile(a.logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open audit log file: %w", err)
	}
	defer file.Close()

	for _, entry := range logsToFlush {
		line, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal audit log: %w", err)
		}

		if _, err := file.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
	}

	return nil
}

// GetContactHistory returns every entry recorded for contactID, oldest first
func (a *ContactAuditor) GetContactHistory(contactID int64) ([]AuditLog, error) {
	var logs []AuditLog

	if err := a.Flush(); err != nil {
		return nil, err
	}

	file, err := os.Open(a.logFile)
	if err != nil {
		if os.IsNotExist(err) {
			return logs, nil
		}
		return nil, fmt.Errorf("failed to open audit log file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	for {
		var entry AuditLog
		if err := decoder.Decode(&entry); err != nil {
			break
		}

		if entry.ContactID == contactID {
			logs = append(logs, entry)
		}
	}

	return logs, nil
}

// Close stops the timer and writes whatever is still pending
func (a *ContactAuditor) Close() error {
	if a.flushTimer != nil {
		a.flushTimer.Stop()
	}
	return a.Flush()
}
