package logging

import (
	"testing"

	"go.viam.com/test"
)

func mockRegistry() *loggerRegistry {
	manager := newLoggerManager()
	manager.registerLogger("logger-1", NewBlankLogger("logger-1"))
	manager.registerLogger("logger-2", NewBlankLogger("logger-2"))
	return manager
}

func TestLoggerRegistration(t *testing.T) {
	manager := mockRegistry()

	expectedLogger := NewBlankLogger("test")
	manager.registerLogger("test", expectedLogger)

	actualLogger, ok := manager.loggerNamed("test")
	test.That(t, actualLogger, test.ShouldEqual, expectedLogger)
	test.That(t, ok, test.ShouldBeTrue)

	missing, ok := manager.loggerNamed("sublogger-2")
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, missing, test.ShouldBeNil)
}

func TestLoggersRegisteredOnCreation(t *testing.T) {
	newLogger := NewLogger("registered-on-creation")

	logger, ok := LoggerNamed("registered-on-creation")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, logger, test.ShouldEqual, newLogger)

	test.That(t, UpdateLoggerLevel("registered-on-creation", ERROR), test.ShouldBeNil)
	test.That(t, newLogger.GetLevel(), test.ShouldEqual, ERROR)
	test.That(t, GetRegisteredLoggerNames(), test.ShouldContain, "registered-on-creation")
}

func TestUpdateLogLevel(t *testing.T) {
	manager := mockRegistry()

	err := manager.updateLoggerLevel("logger-1", WARN)
	test.That(t, err, test.ShouldBeNil)

	logger1, ok := manager.loggerNamed("logger-1")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, logger1.GetLevel(), test.ShouldEqual, WARN)

	err = manager.updateLoggerLevel("slogger-1", DEBUG)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGetRegisteredNames(t *testing.T) {
	manager := mockRegistry()
	names := manager.getRegisteredLoggerNames()
	test.That(t, len(names), test.ShouldEqual, 2)
	for _, name := range names {
		_, ok := manager.loggerNamed(name)
		test.That(t, ok, test.ShouldBeTrue)
	}
}
