package console

import (
	"strings"
	"testing"
)

const benchSource = `class Greeter
  def initialize(names)
    @names = names.map { |n| n.to_s.strip }
  end

  def greet(out = $stdout)
    @names.each_with_index do |name, i|
      out.puts <<~MSG
        #{i + 1}. Hello, #{name}!
      MSG
    end
  end
end
`

// Benchmark analysis of a complete class, the work done when a statement ends.
func BenchmarkAnalyze(b *testing.B) {
	a := NewAnalyzer(Options{})

	b.ResetTimer()
	for range b.N {
		if _, err := a.Analyze(benchSource); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark the per-keystroke cost of growing a buffer line by line.
func BenchmarkAnalyzeIncremental(b *testing.B) {
	a := NewAnalyzer(Options{})
	lines := strings.SplitAfter(benchSource, "\n")

	b.ResetTimer()
	for range b.N {
		var buf strings.Builder
		for _, line := range lines {
			buf.WriteString(line)
			if _, err := a.Analyze(buf.String()); err != nil {
				b.Fatal(err)
			}
		}
	}
}

// Benchmark reindenting a flattened paste.
func BenchmarkReindent(b *testing.B) {
	lines := strings.Split(benchSource, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, " ")
	}
	flat := strings.Join(lines, "\n")
	a := NewAnalyzer(Options{})

	b.ResetTimer()
	for range b.N {
		_ = a.Reindent(flat)
	}
}
