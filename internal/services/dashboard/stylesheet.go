package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
)

// Stylesheet is the dark dashboard theme linked from the rendered report
const Stylesheet = `:root {
  color-scheme: dark;
  --bg: #020617;
  --bg-elevated: #020617;
  --bg-soft: #020617;
  --border-subtle: rgba(31,41,55,0.9);
  --border-accent: rgba(56,189,248,0.7);
  --text-main: #e5e7eb;
  --text-muted: #9ca3af;
  --pill-bg: rgba(15,118,110,0.15);
  --pill-border: rgba(45,212,191,0.35);
  --pill-text: #a5f3fc;
  --status-bg: radial-gradient(circle at top, rgba(248,113,113,0.15), rgba(15,23,42,0.9));
  --status-border: rgba(248,113,113,0.7);
  --status-text: #fecaca;
  --accent: #38bdf8;
  --accent-soft: rgba(56,189,248,0.12);
}

*,
*::before,
*::after {
  box-sizing: border-box;
}

body {
  font-family: system-ui, -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
  margin: 0;
  padding: 0;
  background:
    radial-gradient(circle at top left, #1d293b 0, #020617 45%, #000 100%);
  color: var(--text-main);
}

.app-shell {
  min-height: 100vh;
  display: flex;
  flex-direction: column;
}

.app-shell::before {
  content: "";
  position: fixed;
  inset: 0 0 auto;
  height: 3px;
  background: linear-gradient(90deg,
    #22d3ee,
    #a855f7,
    #f97316,
    #22d3ee);
  background-size: 300% 100%;
  animation: shimmer 9s linear infinite;
  z-index: 50;
}

@keyframes shimmer {
  0% { background-position: 0% 50%; }
  50% { background-position: 100% 50%; }
  100% { background-position: 0% 50%; }
}

header {
  padding: 1.4rem 2.2rem 1.3rem;
  background: rgba(15,23,42,0.95);
  border-bottom: 1px solid #1f2937;
  backdrop-filter: blur(12px);
  display: flex;
  align-items: center;
  justify-content: space-between;
  gap: 1rem;
  position: sticky;
  top: 0;
  z-index: 10;
}

.header-left h1 {
  margin: 0;
  font-size: 1.55rem;
  letter-spacing: 0.04em;
  display: flex;
  align-items: center;
  gap: 0.5rem;
}

.header-logo {
  width: 26px;
  height: 26px;
  border-radius: 10px;
  background: radial-gradient(circle at 20% 0%, #22d3ee, #4f46e5 40%, #0f172a 100%);
  display: inline-flex;
  align-items: center;
  justify-content: center;
  box-shadow: 0 0 18px rgba(56,189,248,0.6);
  flex-shrink: 0;
}

.header-logo span {
  font-size: 0.85rem;
  font-weight: 700;
  color: #0b1120;
}

.header-left p {
  margin: 0.3rem 0 0;
  color: var(--text-muted);
  font-size: 0.88rem;
}

.header-right {
  display: flex;
  flex-direction: column;
  align-items: flex-end;
  gap: 0.2rem;
}

.tagline {
  font-size: 0.8rem;
  text-transform: uppercase;
  letter-spacing: 0.13em;
  color: #a5b4fc;
}

.badge-chip {
  border-radius: 999px;
  padding: 0.25rem 0.7rem;
  font-size: 0.7rem;
  border: 1px solid rgba(148,163,184,0.7);
  background: rgba(15,23,42,0.9);
  color: #cbd5f5;
  display: inline-flex;
  align-items: center;
  gap: 0.3rem;
}

.badge-dot {
  width: 7px;
  height: 7px;
  border-radius: 999px;
  background: #22c55e;
}

/* Main content */
main {
  padding: 1.7rem 2.2rem 3rem;
  max-width: 1100px;
  margin: 0 auto;
  width: 100%;
}

.summary {
  margin-bottom: 1.7rem;
  display: flex;
  gap: 0.8rem;
  flex-wrap: wrap;
}

.pill {
  padding: 0.35rem 0.85rem;
  border-radius: 999px;
  background: var(--pill-bg);
  border: 1px solid var(--pill-border);
  font-size: 0.75rem;
  text-transform: uppercase;
  letter-spacing: 0.09em;
  color: var(--pill-text);
}

/* Test cards */
.test {
  background: radial-gradient(circle at top left,
    rgba(15,23,42,0.9),
    rgba(2,6,23,1));
  border-radius: 1rem;
  padding: 1.15rem 1.3rem 1.25rem;
  margin-bottom: 1.1rem;
  border: 1px solid var(--border-subtle);
  box-shadow:
    0 18px 40px rgba(0,0,0,0.7),
    0 0 0 1px rgba(15,23,42,1);
  transition:
    transform 0.16s ease,
    box-shadow 0.16s ease,
    border-color 0.16s ease,
    background 0.16s ease;
  position: relative;
  overflow: hidden;
}

.test::before {
  content: "";
  position: absolute;
  inset: -40%;
  background:
    radial-gradient(circle at 0% 0%, rgba(56,189,248,0.12), transparent 55%),
    radial-gradient(circle at 100% 0%, rgba(129,140,248,0.16), transparent 55%);
  opacity: 0;
  transition: opacity 0.2s ease;
  pointer-events: none;
}

.test:hover {
  transform: translateY(-2px);
  border-color: var(--border-accent);
  box-shadow:
    0 22px 52px rgba(15,23,42,0.9),
    0 0 0 1px rgba(56,189,248,0.4);
}

.test:hover::before {
  opacity: 1;
}

.test-header {
  display: flex;
  align-items: center;
  justify-content: space-between;
  gap: 0.75rem;
  margin-bottom: 0.2rem;
}

.test h2 {
  margin: 0;
  font-size: 1.02rem;
  font-weight: 600;
}

.badge-status {
  border-radius: 999px;
  padding: 0.25rem 0.7rem;
  font-size: 0.7rem;
  text-transform: uppercase;
  letter-spacing: 0.08em;
  border: 1px solid var(--status-border);
  background: var(--status-bg);
  color: var(--status-text);
}

.meta {
  margin: 0;
  padding: 0;
  font-size: 0.82rem;
  color: var(--text-muted);
}

.meta span {
  color: var(--text-main);
}

/* Details + analysis */
.details {
  margin-top: 0.75rem;
}

summary {
  cursor: pointer;
  font-weight: 600;
  color: var(--accent);
  font-size: 0.9rem;
  list-style: none;
  display: inline-flex;
  align-items: center;
  gap: 0.3rem;
}

summary::-webkit-details-marker {
  display: none;
}

summary::before {
  content: "\25B8";
  display: inline-block;
  margin-right: 0.2rem;
  transition: transform 0.15s ease;
  font-size: 0.8rem;
  color: var(--accent);
}

details[open] summary::before {
  transform: rotate(90deg);
}

.analysis {
  margin-top: 0.55rem;
  padding: 0.8rem 0.85rem;
  border-radius: 0.75rem;
  background: rgba(15,23,42,0.96);
  border: 1px solid rgba(31,41,55,0.9);
  font-size: 0.86rem;
  line-height: 1.45;
}

.analysis h3 {
  margin: 0.35rem 0 0.15rem;
  font-size: 0.95rem;
  color: #e5e7eb;
}

.analysis p {
  margin: 0.2rem 0 0.45rem;
  color: #cbd5e1;
}

.analysis ul,
.analysis ol {
  margin: 0.25rem 0 0.45rem 1.1rem;
  padding-left: 0.4rem;
}

.analysis li {
  margin-bottom: 0.15rem;
}

.analysis code {
  font-family: ui-monospace, SFMono-Regular, Menlo, Monaco, Consolas, "Liberation Mono", "Courier New", monospace;
  font-size: 0.82rem;
  background: rgba(15,23,42,0.9);
  padding: 0.1rem 0.25rem;
  border-radius: 0.3rem;
  border: 1px solid rgba(15,118,110,0.5);
}

.analysis pre {
  white-space: pre-wrap;
  background: rgba(15,23,42,0.9);
  border-radius: 0.5rem;
  padding: 0.6rem 0.7rem;
  border: 1px solid #1f2937;
  overflow-x: auto;
  font-size: 0.8rem;
}

/* Small screen tweaks */
@media (max-width: 700px) {
  header {
    padding: 1.1rem 1.4rem;
    flex-direction: column;
    align-items: flex-start;
  }
  main {
    padding: 1.3rem 1.4rem 2.4rem;
  }
}
`

// WriteStylesheet writes the dashboard stylesheet to path
func WriteStylesheet(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create stylesheet directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(Stylesheet), 0644); err != nil {
		return fmt.Errorf("failed to write stylesheet %s: %w", path, err)
	}
	return nil
}
