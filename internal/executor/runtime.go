package executor

import (
	"fmt"
	"runtime"
)

// RuntimeInfo describes a language runtime CodeCell can invoke.
type RuntimeInfo struct {
	Name        string
	Command     string
	DownloadURL string
}

var (
	runtimeNode   = RuntimeInfo{Name: "Node.js", Command: "node", DownloadURL: "https://nodejs.org/"}
	runtimeNpx    = RuntimeInfo{Name: "npx (Node.js)", Command: "npx", DownloadURL: "https://nodejs.org/"}
	runtimePython = RuntimeInfo{Name: "Python", Command: "python3", DownloadURL: "https://www.python.org/downloads/"}
	runtimeRust   = RuntimeInfo{Name: "Rust", Command: "rustc", DownloadURL: "https://rustup.rs/"}
	runtimeJava   = RuntimeInfo{Name: "Java", Command: "java", DownloadURL: "https://adoptium.net/"}
	runtimeJavac  = RuntimeInfo{Name: "Java Compiler", Command: "javac", DownloadURL: "https://adoptium.net/"}
)

// CheckResult is the outcome of a runtime availability probe.
type CheckResult struct {
	Available   bool
	InstallHint string
}

// CheckRuntime probes for a runtime and, when missing, produces a
// user-facing install hint for the current platform.
func (e *Executor) CheckRuntime(info RuntimeInfo) CheckResult {
	if _, err := e.runner.LookPath(info.Command); err == nil {
		return CheckResult{Available: true}
	}
	return CheckResult{InstallHint: e.formatInstallHint(info)}
}

func (e *Executor) formatInstallHint(info RuntimeInfo) string {
	hint := fmt.Sprintf("Error: %s is not installed\n\n", info.Name)
	if cmd := e.installCommand(info); cmd != "" {
		hint += fmt.Sprintf("To install %s on your system:\n  %s\n\n", info.Name, cmd)
	}
	hint += fmt.Sprintf("Or download from: %s\n", info.DownloadURL)
	return hint
}

// installCommand returns the package-manager invocation for the detected
// platform, or "" when none applies.
func (e *Executor) installCommand(info RuntimeInfo) string {
	pm := e.detectPackageManager()

	switch info.Command {
	case "node", "npx":
		switch pm {
		case "brew":
			return "brew install node"
		case "apt":
			return "sudo apt install nodejs npm"
		case "dnf":
			return "sudo dnf install nodejs npm"
		case "pacman":
			return "sudo pacman -S nodejs npm"
		case "winget":
			return "winget install OpenJS.NodeJS"
		}
	case "python3":
		switch pm {
		case "brew":
			return "brew install python"
		case "apt":
			return "sudo apt install python3"
		case "dnf":
			return "sudo dnf install python3"
		case "pacman":
			return "sudo pacman -S python"
		case "winget":
			return "winget install Python.Python.3.12"
		}
	case "rustc":
		switch pm {
		case "brew":
			return "brew install rust"
		case "pacman":
			return "sudo pacman -S rust"
		case "winget":
			return "winget install Rustlang.Rustup"
		case "apt", "dnf":
			return "curl --proto '=https' --tlsv1.2 -sSf https://sh.rustup.rs | sh"
		}
	case "java", "javac":
		switch pm {
		case "brew":
			return "brew install openjdk"
		case "apt":
			return "sudo apt install default-jdk"
		case "dnf":
			return "sudo dnf install java-latest-openjdk-devel"
		case "pacman":
			return "sudo pacman -S jdk-openjdk"
		case "winget":
			return "winget install EclipseAdoptium.Temurin.21.JDK"
		}
	}
	return ""
}

func (e *Executor) detectPackageManager() string {
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{"brew"}
	case "linux":
		candidates = []string{"apt", "dnf", "pacman"}
	case "windows":
		candidates = []string{"winget"}
	}
	for _, c := range candidates {
		if _, err := e.runner.LookPath(c); err == nil {
			return c
		}
	}
	return ""
}
