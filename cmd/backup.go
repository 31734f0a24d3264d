package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/upwell-app/upwell/internal/backup"
	"github.com/upwell-app/upwell/internal/ui"
	"golang.org/x/term"
)

const passphraseEnv = "UPWELL_BACKUP_PASSPHRASE"

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or restore an encrypted copy of your records",
	Long: `Export all records to a passphrase-encrypted file, or restore one.
Set ` + passphraseEnv + ` to skip the prompt.`,
	RunE: runBackupStatus,
}

var backupExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write an encrypted backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupExport,
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore records from an encrypted backup",
	Long: `Restore records from a backup. Check-ins and weights on dates that
already exist are replaced; applications already present are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupImport,
}

func init() {
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupImportCmd)
}

func runBackupStatus(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	last, ok, err := backup.LastExport(context.Background(), s.db)
	if err != nil {
		return err
	}
	fmt.Println()
	if ok {
		ui.Kv(ui.IconLock+" Último backup", last)
	} else {
		ui.Kv(ui.IconLock+" Último backup", ui.Warning.Render("nunca"))
	}
	fmt.Println()
	ui.Tip(fmt.Sprintf("%s para exportar, %s para restaurar.",
		ui.Accent.Render("upwell backup export <arquivo>"), ui.Accent.Render("upwell backup import <arquivo>")))
	fmt.Println()
	return nil
}

func runBackupExport(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	pass, err := readPassphrase(true)
	if err != nil {
		return err
	}
	snap, err := backup.Export(context.Background(), s.db, s.userID(), args[0], pass, s.today)
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Backup salvo em %s", args[0]))
	ui.Kv("   Conteúdo", fmt.Sprintf("%s, %s, %s",
		ui.Plural(len(snap.CheckIns), "check-in", "check-ins"),
		ui.Plural(len(snap.Weights), "peso", "pesos"),
		ui.Plural(len(snap.Applications), "aplicação", "aplicações")))
	ui.Tip("Guarde a senha: sem ela o arquivo não pode ser restaurado.")
	return nil
}

func runBackupImport(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	pass, err := readPassphrase(false)
	if err != nil {
		return err
	}
	n, err := backup.Import(context.Background(), s.db, s.userID(), args[0], pass)
	switch {
	case errors.Is(err, backup.ErrWrongPassphrase):
		return fmt.Errorf("wrong passphrase (double-check %s or try again interactively)", passphraseEnv)
	case errors.Is(err, backup.ErrCorrupted):
		return fmt.Errorf("%s is not a readable upwell backup: %w", args[0], err)
	case err != nil:
		return err
	}
	printCounts("Restaurado", n)
	return nil
}

// readPassphrase takes the passphrase from the environment, falling back to
// a hidden prompt on a terminal. With confirm set the prompt asks twice.
func readPassphrase(confirm bool) (string, error) {
	if p := os.Getenv(passphraseEnv); p != "" {
		return p, nil
	}

	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("backup passphrase required (set %s or run interactively)", passphraseEnv)
	}

	fmt.Fprint(os.Stderr, ui.Muted.Render("  Senha do backup: "))
	pass, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	if len(pass) == 0 {
		return "", fmt.Errorf("passphrase can't be empty")
	}

	if confirm {
		fmt.Fprint(os.Stderr, ui.Muted.Render("  Confirme a senha: "))
		again, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading passphrase confirmation: %w", err)
		}
		if string(again) != string(pass) {
			return "", fmt.Errorf("passphrases don't match")
		}
	}
	return string(pass), nil
}
