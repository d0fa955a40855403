package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var (
		extended bool
		preKeys  int
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate identity keys and store them securely",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return errPassphraseRequired
			}
			id, fp, err := appCtx.IDs.GenerateIdentity(passphrase, extended)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Identity created.\nFingerprint: %s\nRegistration ID: %d\n", fp, id.RegistrationID)

			if preKeys > 0 {
				spk, keys, err := appCtx.IDs.GenerateAndStorePreKeys(passphrase, 0, preKeys)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Generated %d pre-keys and signed pre-key %d.\n", len(keys), spk.ID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&extended, "extended-registration-id", false, "draw the registration id from the full 32-bit range")
	cmd.Flags().IntVar(&preKeys, "prekeys", 100, "one-time pre-keys to generate (0 to skip)")
	return cmd
}
