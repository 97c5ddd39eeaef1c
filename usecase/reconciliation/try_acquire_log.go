package reconciliation

import (
	"path/filepath"

	"github.com/labstack/gommon/log"
)

// lockKey identifies an output directory regardless of how the path was spelled.
func lockKey(outputDir string) string {
	if abs, err := filepath.Abs(outputDir); err == nil {
		return abs
	}
	return filepath.Clean(outputDir)
}

func (u *reconciliationUsecase) tryAcquireLock(outputDir string) (string, bool) {
	key := lockKey(outputDir)
	if !u.locker.TryLock(key) {
		log.Warnf("[LOCK_PROCESS] output_dir:%s already in use", key)
		return key, false
	}
	log.Infof("[LOCK_PROCESS] output_dir:%s", key)
	return key, true
}

func (u *reconciliationUsecase) unlockProcess(key string) {
	u.locker.Unlock(key)
	log.Infof("[UNLOCK_PROCESS] output_dir:%s", key)
}
