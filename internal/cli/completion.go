// Package cli provides shell completion script generation for various shells.
package cli

import (
	"fmt"
	"io"
)

// GenerateCompletion writes the completion script for shell ("bash", "zsh"
// or "fish") to out.
func GenerateCompletion(out io.Writer, shell string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion
	case "zsh":
		script = zshCompletion
	case "fish":
		script = fishCompletion
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	_, err := io.WriteString(out, script)
	return err
}

const bashCompletion = `# Bash completion script for adfcalc
# Add this to your ~/.bashrc or ~/.bash_completion

_adfcalc_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="--help -h --version -V --ref --rf --refstart --steps --workers --timeout --batch --config --json --quiet -q --details -d --no-color --output -o --server --port --interactive --completion"

    case "${prev}" in
        --completion)
            COMPREPLY=( $(compgen -W "bash zsh fish" -- "${cur}") )
            return 0
            ;;
        --output|-o|--batch|--config)
            COMPREPLY=( $(compgen -f -- "${cur}") )
            return 0
            ;;
        --ref)
            COMPREPLY=( $(compgen -W "10000000 19200000 25000000 26000000 38400000 100000000" -- "${cur}") )
            return 0
            ;;
        --port)
            COMPREPLY=( $(compgen -W "8080 3000 5000 9000" -- "${cur}") )
            return 0
            ;;
        --timeout)
            COMPREPLY=( $(compgen -W "10s 1m 5m 10m" -- "${cur}") )
            return 0
            ;;
        --rf|--refstart|--steps|--workers)
            return 0
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
    if [[ "${cur}" == @* ]]; then
        COMPREPLY=( $(compgen -P @ -f -- "${cur#@}") )
        return 0
    fi
}

complete -F _adfcalc_completions adfcalc
`

const zshCompletion = `#compdef adfcalc

# Zsh completion script for adfcalc
# Add this to your ~/.zshrc or place in $fpath

_adfcalc() {
    _arguments -s \
        '(-h --help)'{-h,--help}'[Show help message]' \
        '(-V --version)'{-V,--version}'[Show version information]' \
        '--ref[Reference frequency in Hz]:hz:(10000000 19200000 25000000 26000000 38400000 100000000)' \
        '--rf[Desired RF output frequency in Hz]:hz:' \
        '--refstart[First reference frequency of a sweep in Hz]:hz:' \
        '--steps[Number of 1 Hz sweep steps]:count:' \
        '--workers[Concurrent sweep workers]:count:' \
        '--timeout[Maximum execution time]:duration:(10s 1m 5m 10m)' \
        '--batch[YAML job file]:file:_files' \
        '--config[YAML defaults file]:file:_files' \
        '--json[Output in JSON format]' \
        '(-q --quiet)'{-q,--quiet}'[One-line output for scripts]' \
        '(-d --details)'{-d,--details}'[Show PFD and VCO details]' \
        '--no-color[Disable colored output]' \
        '(-o --output)'{-o,--output}'[Output file path]:file:_files' \
        '--server[Start HTTP server mode]' \
        '--port[Server port]:port:(8080 3000 5000 9000)' \
        '--interactive[Start interactive REPL mode]' \
        '--completion[Generate completion script]:shell:(bash zsh fish)'
}

_adfcalc "$@"
`

const fishCompletion = `# Fish completion script for adfcalc
# Add this to ~/.config/fish/completions/adfcalc.fish

complete -c adfcalc -f

complete -c adfcalc -s h -l help -d 'Show help message'
complete -c adfcalc -s V -l version -d 'Show version information'

# Frequencies
complete -c adfcalc -l ref -d 'Reference frequency in Hz' -xa '10000000 19200000 25000000 26000000 38400000 100000000'
complete -c adfcalc -l rf -d 'Desired RF output frequency in Hz' -x
complete -c adfcalc -l refstart -d 'First reference frequency of a sweep in Hz' -x
complete -c adfcalc -l steps -d 'Number of 1 Hz sweep steps' -x
complete -c adfcalc -l workers -d 'Concurrent sweep workers' -x
complete -c adfcalc -l timeout -d 'Maximum execution time' -xa '10s 1m 5m 10m'

# Input files
complete -c adfcalc -l batch -d 'YAML job file' -rF
complete -c adfcalc -l config -d 'YAML defaults file' -rF

# Output options
complete -c adfcalc -l json -d 'Output in JSON format'
complete -c adfcalc -s q -l quiet -d 'One-line output for scripts'
complete -c adfcalc -s d -l details -d 'Show PFD and VCO details'
complete -c adfcalc -s o -l output -d 'Output file path' -rF
complete -c adfcalc -l no-color -d 'Disable colored output'

# Server, interactive and completion
complete -c adfcalc -l server -d 'Start HTTP server mode'
complete -c adfcalc -l port -d 'Server port' -xa '8080 3000 5000 9000'
complete -c adfcalc -l interactive -d 'Start interactive REPL mode'
complete -c adfcalc -l completion -d 'Generate completion script' -xa 'bash zsh fish'
`
