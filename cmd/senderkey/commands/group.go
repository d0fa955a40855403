package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"senderkey/internal/crypto"
	"senderkey/internal/domain"
)

// create <group>: start a new epoch and print its distribution message.
func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <group>",
		Short: "Start a new sender key epoch in a group and print its distribution message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := localSender()
			if err != nil {
				return err
			}
			dist, err := appCtx.Groups.CreateSenderKey(cmd.Context(), domain.GroupID(args[0]), me)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), crypto.B64(dist))
			return nil
		},
	}
}

// distribution <group>: print the distribution message of the current epoch.
func distributionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distribution <group>",
		Short: "Print the distribution message of your current epoch in a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := localSender()
			if err != nil {
				return err
			}
			dist, err := appCtx.Groups.DistributionMessage(cmd.Context(), domain.GroupID(args[0]), me)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), crypto.B64(dist))
			return nil
		},
	}
}

// join <group> <sender> <distribution>: record a peer's epoch.
func joinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <group> <sender> <distribution>",
		Short: "Record the distribution message a peer sent for a group",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dist, err := decodeArg("distribution", args[2])
			if err != nil {
				return err
			}
			group, sender := domain.GroupID(args[0]), domain.SenderID(args[1])
			if err := appCtx.Groups.ProcessDistributionMessage(cmd.Context(), group, sender, dist); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "joined %s as reader of %s\n", group, sender)
			return nil
		},
	}
}

// encrypt <group> [message]: encrypt a message, read from stdin when omitted.
func encryptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <group> [message]",
		Short: "Encrypt a message to a group and print it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := localSender()
			if err != nil {
				return err
			}
			var plaintext []byte
			if len(args) == 2 {
				plaintext = []byte(args[1])
			} else if plaintext, err = io.ReadAll(cmd.InOrStdin()); err != nil {
				return err
			}
			msg, err := appCtx.Groups.Encrypt(cmd.Context(), domain.GroupID(args[0]), me, plaintext)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), crypto.B64(msg))
			return nil
		},
	}
}

// decrypt <group> <sender> <message>: decrypt a peer's message.
func decryptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt <group> <sender> <message>",
		Short: "Decrypt a group message from a peer",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := decodeArg("message", args[2])
			if err != nil {
				return err
			}
			pt, err := appCtx.Groups.Decrypt(cmd.Context(), domain.GroupID(args[0]), domain.SenderID(args[1]), msg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", pt)
			return nil
		},
	}
}

func decodeArg(name, s string) ([]byte, error) {
	b, err := crypto.FromB64(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrapf(err, "%s is not base64", name)
	}
	return b, nil
}
