package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_lockdiary() {
    local cur prev words cword
    _init_completion || return

    local commands="init write show ls rm react export import status compact keyring help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        write)
            if [[ "$prev" == "-file" ]]; then
                _filedir
            elif [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-title -file -vault -no-keyring" -- "$cur"))
            fi
            ;;
        export|import)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-force -vault" -- "$cur"))
            else
                _filedir
            fi
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _lockdiary lockdiary
`

const zshCompletion = `#compdef lockdiary

_lockdiary() {
    local -a commands
    commands=(
        'init:Create a new encrypted diary'
        'write:Write or replace an entry'
        'show:Print an entry'
        'ls:List entries'
        'rm:Remove entries'
        'react:Set or clear the reaction on an entry'
        'export:Write the encrypted diary to a backup file'
        'import:Replace the diary with a backup file'
        'status:Show diary status'
        'compact:Compact diary file to reclaim disk space'
        'keyring:Manage password in OS keyring'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'lockdiary commands' commands
            ;;
        args)
            case "${words[2]}" in
                write)
                    _arguments \
                        '-title[Entry title]:title:' \
                        '-file[Read entry text from file]:file:_files'
                    ;;
                export|import)
                    _arguments \
                        '-force[Do not ask before overwriting]' \
                        '*:file:_files'
                    ;;
                keyring)
                    _values 'subcommand' save delete status
                    ;;
                help)
                    _describe -t commands 'lockdiary commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_lockdiary "$@"
`

const fishCompletion = `# lockdiary fish completions

set -l commands init write show ls rm react export import status compact keyring help completion

complete -c lockdiary -f

# Commands
complete -c lockdiary -n "not __fish_seen_subcommand_from $commands" -a init -d 'Create a new diary'
complete -c lockdiary -n "not __fish_seen_subcommand_from $commands" -a write -d 'Write an entry'
complete -c lockdiary -n "not __fish_seen_subcommand_from $commands" -a show -d 'Print an entry'
complete -c lockdiary -n "not __fish_seen_subcommand_from $commands" -a ls -d 'List entries'
complete -c lockdiary -n "not __fish_seen_subcommand_from $commands" -a rm -d 'Remove entries'
complete -c lockdiary -n "not __fish_seen_subcommand_from $commands" -a react -d 'Set reaction'
complete -c lockdiary -n "not __fish_seen_subcommand_from $commands" -a export -d 'Export encrypted backup'
complete -c lockdiary -n "not __fish_seen_subcommand_from $commands" -a import -d 'Import encrypted backup'
complete -c lockdiary -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show diary status'
complete -c lockdiary -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact diary file'
complete -c lockdiary -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage password in OS keyring'
complete -c lockdiary -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c lockdiary -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# write flags
complete -c lockdiary -n "__fish_seen_subcommand_from write" -o title -d 'Entry title'
complete -c lockdiary -n "__fish_seen_subcommand_from write" -o file -r -F -d 'Read text from file'

# export/import
complete -c lockdiary -n "__fish_seen_subcommand_from export import" -o force -d 'Do not ask'
complete -c lockdiary -n "__fish_seen_subcommand_from export import" -F

# keyring subcommands
complete -c lockdiary -n "__fish_seen_subcommand_from keyring" -a "save delete status"

# help completions
complete -c lockdiary -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c lockdiary -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
