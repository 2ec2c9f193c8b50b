package recipe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/camp-build/camp/pkgs/buildsys"
	"github.com/camp-build/camp/pkgs/platform"
)

// Hook is a phase extension point. Nil hooks are no-ops; a hook error
// aborts the run.
type Hook func(l *Lifecycle) error

// Hooks are the extension points around each lifecycle phase.
type Hooks struct {
	PreConfigure  Hook
	PostConfigure Hook
	PreBuild      Hook
	PostBuild     Hook
	PreInstall    Hook
	PostInstall   Hook
	PreReport     Hook
	PostReport    Hook
}

// Lifecycle drives configure, build, install, and report against a native
// build system. Configure projects every declared recipe option as an
// uppercased build variable; Report collects the produced library artifact
// names as the recipe's link interface. A failed phase aborts the sequence.
type Lifecycle struct {
	Options  Options
	System   buildsys.BuildSystem
	Platform platform.Platform
	Hooks    Hooks

	// Libs is the link interface collected by Report.
	Libs []string
}

// Run executes the full lifecycle in order.
func (l *Lifecycle) Run() error {
	if err := l.Configure(); err != nil {
		return err
	}
	if err := l.Build(); err != nil {
		return err
	}
	if err := l.Install(); err != nil {
		return err
	}
	return l.Report()
}

// Configure projects the recipe options into the build system and runs its
// configure/generate step.
func (l *Lifecycle) Configure(args ...string) error {
	names := make([]string, 0, len(l.Options))
	for name := range l.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		key := strings.ToUpper(name)
		if b, ok := l.Options[name].(bool); ok {
			l.System.DefineBool(key, b)
			continue
		}
		l.System.Define(key, ProjectValue(l.Options[name]))
	}

	if err := l.call(l.Hooks.PreConfigure); err != nil {
		return err
	}
	if err := l.System.Configure(args...); err != nil {
		return fmt.Errorf("configure: %w", err)
	}
	return l.call(l.Hooks.PostConfigure)
}

// Build runs the native build.
func (l *Lifecycle) Build(args ...string) error {
	if err := l.call(l.Hooks.PreBuild); err != nil {
		return err
	}
	if err := l.System.Build(args...); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	return l.call(l.Hooks.PostBuild)
}

// Install runs the native install.
func (l *Lifecycle) Install(args ...string) error {
	if err := l.call(l.Hooks.PreInstall); err != nil {
		return err
	}
	if err := l.System.Install(args...); err != nil {
		return fmt.Errorf("install: %w", err)
	}
	return l.call(l.Hooks.PostInstall)
}

// Report collects the produced library artifacts into Libs.
func (l *Lifecycle) Report() error {
	if err := l.call(l.Hooks.PreReport); err != nil {
		return err
	}
	libs, err := CollectLibs(l.System.OutputDir(), l.Platform)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	l.Libs = libs
	return l.call(l.Hooks.PostReport)
}

func (l *Lifecycle) call(hook Hook) error {
	if hook == nil {
		return nil
	}
	return hook(l)
}
