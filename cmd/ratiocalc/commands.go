package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/govalues/decimal"
	"github.com/spf13/cobra"

	"github.com/govalues/tokenratio"
)

const flagRounding = "rounding"

// NewRootCmd returns the ratiocalc root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratiocalc",
		Short: "Apply and reverse token ratios and fees",
		Long: `ratiocalc converts uint64 token amounts under exact ratios and charges
proportional fees, rounding in favor of the protocol.

Errors raised by the arithmetic engine are reported with program error code ` +
			strconv.FormatUint(uint64(tokenratio.ProgramErrorCode), 10) + `.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		GetCmdApply(),
		GetCmdReverse(),
		GetFeeCmd(),
		GetBpsCmd(),
	)

	return cmd
}

// GetCmdApply returns the command applying a ratio to an amount.
func GetCmdApply() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [ratio] [amount]",
		Short: "Apply a ratio to an amount",
		Long: `Apply a ratio, given as num/denom or as a decimal, to an amount.

Example:
  $ ratiocalc apply 1/3 10
  $ ratiocalc apply 1.2345 1000000 --rounding up`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := roundedRatio(cmd, args[0])
			if err != nil {
				return err
			}
			amt, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			res, err := r.Apply(amt)
			if err != nil {
				return tokenratio.ToProgramError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res)
			return nil
		},
	}

	addRoundingFlag(cmd)
	return cmd
}

// GetCmdReverse returns the command reversing a ratio application.
func GetCmdReverse() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reverse [ratio] [output]",
		Short: "List every amount a ratio maps onto an output",
		Long: `Print the closed range of amounts that the ratio, applied with the given
rounding, maps onto the output.

Example:
  $ ratiocalc reverse 1/3 3
  $ ratiocalc reverse 1/3 4 --rounding up`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := roundedRatio(cmd, args[0])
			if err != nil {
				return err
			}
			out, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			rng, err := r.Reverse(out)
			if err != nil {
				return tokenratio.ToProgramError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rng)
			return nil
		},
	}

	addRoundingFlag(cmd)
	return cmd
}

// GetFeeCmd returns the commands for fees given as num/denom.
func GetFeeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fee",
		Short: "Charge and reverse proportional fees",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "apply [fee] [amount]",
			Short: "Charge a fee on an amount",
			Long: `Charge a fee, given as num/denom or as a decimal fraction, on an amount.

Example:
  $ ratiocalc fee apply 3/1000 1000000`,
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				fee, err := parseFee(args[0])
				if err != nil {
					return err
				}
				amt, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				return printApplied(cmd, fee.Apply, amt)
			},
		},
		&cobra.Command{
			Use:   "reverse [fee] [amount-after-fee]",
			Short: "Recover an amount a fee was charged on",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				fee, err := parseFee(args[0])
				if err != nil {
					return err
				}
				amt, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				return printReversed(cmd, fee.PseudoReverse, fee.Remainder(), amt)
			},
		},
	)

	return cmd
}

// GetBpsCmd returns the commands for fees given in basis points.
func GetBpsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bps",
		Short: "Charge and reverse basis point fees",
		Long: `Charge and reverse fees given in basis points, such as 25, or as a decimal
fraction with at most 4 decimal places, such as 0.0025.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "apply [bps] [amount]",
			Short: "Charge a basis point fee on an amount",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				fee, err := parseBps(args[0])
				if err != nil {
					return err
				}
				amt, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				return printApplied(cmd, fee.Apply, amt)
			},
		},
		&cobra.Command{
			Use:   "reverse [bps] [amount-after-fee]",
			Short: "Recover an amount a basis point fee was charged on",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				fee, err := parseBps(args[0])
				if err != nil {
					return err
				}
				amt, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				return printReversed(cmd, fee.PseudoReverse, fee.Remainder(), amt)
			},
		},
		&cobra.Command{
			Use:   "check [bps]",
			Short: "Report whether a basis point fee is valid",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.ParseUint(args[0], 10, 16)
				if err != nil {
					return fmt.Errorf("invalid bps: %w", err)
				}
				fee := tokenratio.BpsFeeSpec(n)
				fmt.Fprintf(cmd.OutOrStdout(), "%v valid=%v\n", fee, fee.IsValid())
				return nil
			},
		},
	)

	return cmd
}

func addRoundingFlag(cmd *cobra.Command) {
	cmd.Flags().String(flagRounding, tokenratio.RoundDown.String(), "rounding policy: down or up")
}

func roundedRatio(cmd *cobra.Command, s string) (tokenratio.ReversibleRatio, error) {
	r, err := tokenratio.ParseRatio(s)
	if err != nil {
		return nil, fmt.Errorf("invalid ratio: %w", err)
	}
	policy, err := cmd.Flags().GetString(flagRounding)
	if err != nil {
		return nil, err
	}
	p, err := tokenratio.ParseRoundingPolicy(policy)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", flagRounding, err)
	}
	return r.Rounding(p), nil
}

func parseAmount(s string) (uint64, error) {
	amt, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %w", err)
	}
	return amt, nil
}

func parseFee(s string) (tokenratio.FeeSpec[uint64, uint64], error) {
	r, err := tokenratio.ParseRatio(s)
	if err != nil {
		return tokenratio.FeeSpec[uint64, uint64]{}, fmt.Errorf("invalid fee: %w", err)
	}
	return tokenratio.NewFeeSpec(r.Num, r.Denom), nil
}

func parseBps(s string) (tokenratio.BpsFeeSpec, error) {
	if strings.Contains(s, ".") {
		d, err := decimal.Parse(s)
		if err != nil {
			return 0, fmt.Errorf("invalid bps: %w", err)
		}
		fee, err := tokenratio.NewBpsFeeSpecFromDecimal(d)
		if err != nil {
			return 0, tokenratio.ToProgramError(err)
		}
		return fee, nil
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid bps: %w", err)
	}
	return tokenratio.BpsFeeSpec(n), nil
}

func printApplied(cmd *cobra.Command, apply func(uint64) (tokenratio.AmtsAfterFee, error), amt uint64) error {
	a, err := apply(amt)
	if err != nil {
		return tokenratio.ToProgramError(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "amount_after_fee=%v fees_charged=%v\n", a.AmtAfterFee, a.FeesCharged)
	return nil
}

func printReversed(cmd *cobra.Command, pseudoReverse func(uint64) (uint64, error), r tokenratio.ReversibleRatio, amt uint64) error {
	orig, err := pseudoReverse(amt)
	if err != nil {
		return tokenratio.ToProgramError(err)
	}
	rng, err := r.Reverse(amt)
	if err != nil {
		return tokenratio.ToProgramError(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "amount=%v range=%v\n", orig, rng)
	return nil
}
