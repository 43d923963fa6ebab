package logging

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
)

// LoggerManager выдаёт логгеры компонентов (world, game, ...) в едином режиме:
// только консоль или консоль плюс отдельный файл на компонент.
type LoggerManager struct {
	mu      sync.Mutex
	loggers map[string]*Logger
	level   LogLevel
	toFile  bool
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = &LoggerManager{
			loggers: make(map[string]*Logger),
			level:   INFO,
		}
	})
	return globalManager
}

// Configure задаёт уровень консоли и запись в файлы для новых логгеров.
// Уже созданным логгерам меняется только уровень.
func (lm *LoggerManager) Configure(level LogLevel, toFile bool) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lm.level = level
	lm.toFile = toFile
	for _, logger := range lm.loggers {
		logger.SetLevel(level)
	}
}

// Get возвращает логгер компонента, создавая его при первом обращении.
// Если файл создать не удалось, компонент пишет только в консоль.
func (lm *LoggerManager) Get(component string) *Logger {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if logger, ok := lm.loggers[component]; ok {
		return logger
	}

	var logger *Logger
	if lm.toFile {
		fileLogger, err := NewLogger(component)
		if err != nil {
			Warn("Логгер %s без файла: %v", component, err)
		} else {
			logger = fileLogger
		}
	}
	if logger == nil {
		logger = NewConsoleLogger(component, os.Stdout, lm.level)
	}
	logger.SetLevel(lm.level)

	lm.loggers[component] = logger
	return logger
}

// Components возвращает отсортированный список компонентов
func (lm *LoggerManager) Components() []string {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	components := make([]string, 0, len(lm.loggers))
	for component := range lm.loggers {
		components = append(components, component)
	}
	sort.Strings(components)
	return components
}

// SetLevel меняет уровень консоли одного компонента
func (lm *LoggerManager) SetLevel(component string, level LogLevel) error {
	lm.mu.Lock()
	logger, ok := lm.loggers[component]
	lm.mu.Unlock()

	if !ok {
		return fmt.Errorf("логгер компонента %s не найден", component)
	}
	logger.SetLevel(level)
	return nil
}

// CloseAll закрывает файлы всех компонентов и забывает их
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var errs []error
	for component, logger := range lm.loggers {
		if err := logger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("логгер %s: %w", component, err))
		}
	}
	lm.loggers = make(map[string]*Logger)
	return errors.Join(errs...)
}

// GetComponentLogger удобная обёртка над менеджером
func GetComponentLogger(component string) *Logger {
	return GetLoggerManager().Get(component)
}

// GetGameLogger логгер потиковых сообщений песочницы
func GetGameLogger() *Logger {
	return GetComponentLogger("game")
}
