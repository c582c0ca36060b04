package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mortgage-engine/config"
	"mortgage-engine/domain"
	"mortgage-engine/repository"
	"mortgage-engine/service"
)

func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func newPaymentCmd() *cobra.Command {
	var (
		amount   float64
		rate     float64
		years    int
		schedule bool
	)

	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Monthly principal and interest of a fixed-rate loan",
		RunE: func(cmd *cobra.Command, args []string) error {
			loans := service.NewLoanService(nil, nil, zap.NewNop())
			result, err := loans.Quote(domain.LoanInput{
				Amount:          amount,
				InterestRate:    rate,
				TermYears:       years,
				IncludeSchedule: schedule,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Monthly payment: %s\n", money(result.MonthlyPayment))
			fmt.Fprintf(out, "Total paid:      %s\n", money(result.TotalPayment))
			fmt.Fprintf(out, "Total interest:  %s\n", money(result.TotalInterest))
			if schedule {
				printSchedule(out, result.Schedule)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "loan amount")
	cmd.Flags().Float64Var(&rate, "rate", 0, "annual interest rate in percent")
	cmd.Flags().IntVar(&years, "years", 30, "term in years")
	cmd.Flags().BoolVar(&schedule, "schedule", false, "print the amortization schedule")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func printSchedule(out io.Writer, rows []domain.ScheduleRow) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Month\tPayment\tPrincipal\tInterest\tBalance\t")
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
			row.Month, money(row.Payment), money(row.Principal), money(row.Interest), money(row.Balance))
	}
	_ = tw.Flush()
}

func newAffordCmd(policyPath *string) *cobra.Command {
	var (
		input   domain.AffordabilityInput
		program string
	)

	cmd := &cobra.Command{
		Use:   "afford",
		Short: "Maximum home price a borrower qualifies for",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := config.LoadPolicy(*policyPath)
			if err != nil {
				return err
			}
			p, ok := domain.ParseLoanProgram(program)
			if !ok {
				return fmt.Errorf("%w: %q", service.ErrUnknownProgram, program)
			}
			input.Program = p

			mortgage := service.NewMortgageMath(policy)
			result, err := service.NewAffordabilityService(mortgage, service.DefaultSolverConfig, zap.NewNop()).
				Calculate(input)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Max home price:   %s\n", money(result.MaxHomePrice))
			fmt.Fprintf(out, "Loan amount:      %s\n", money(result.MaxLoanAmount))
			fmt.Fprintf(out, "Monthly payment:  %s (P&I %s, tax %s, insurance %s, MI %s, HOA %s)\n",
				money(result.TotalMonthlyPayment), money(result.MonthlyPI), money(result.MonthlyTax),
				money(result.MonthlyInsurance), money(result.MonthlyMI), money(result.MonthlyHOA))
			fmt.Fprintf(out, "Limited by:       %s-end DTI (%.2f%% / %.2f%%)\n",
				result.LimitingRatio, result.FrontEndRatio, result.BackEndRatio)
			if !result.Converged {
				fmt.Fprintf(out, "Warning: estimate did not converge after %d iterations\n", result.Iterations)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&input.AnnualIncome, "income", 0, "gross annual income")
	f.Float64Var(&input.MonthlyDebts, "debts", 0, "monthly debt payments")
	f.Float64Var(&input.DownPayment, "down", 0, "down payment")
	f.Float64Var(&input.InterestRate, "rate", 0, "annual interest rate in percent")
	f.IntVar(&input.TermYears, "years", 30, "term in years")
	f.Float64Var(&input.PropertyTaxRate, "tax", 1.2, "annual property tax, percent of price")
	f.Float64Var(&input.InsuranceRate, "insurance", 0.5, "annual homeowners insurance, percent of price")
	f.Float64Var(&input.MonthlyHOA, "hoa", 0, "monthly HOA dues")
	f.StringVar(&program, "program", string(domain.ProgramConventional), "conventional, fha, va or usda")
	f.IntVar(&input.CreditScore, "credit", 740, "credit score")
	_ = cmd.MarkFlagRequired("income")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func newPolicyCmd(policyPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "policy [program]",
		Short: "Print the DTI and mortgage insurance rules of each program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := config.LoadPolicy(*policyPath)
			if err != nil {
				return err
			}

			programs := domain.Programs
			if len(args) == 1 {
				p, ok := domain.ParseLoanProgram(args[0])
				if !ok {
					return fmt.Errorf("%w: %q", service.ErrUnknownProgram, args[0])
				}
				programs = []domain.LoanProgram{p}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Policy %s (%s)\n", policy.Metadata.Version, policy.Metadata.LastUpdated)
			for _, p := range programs {
				printProgram(out, p, policy.Programs[p])
			}
			return nil
		},
	}
}

func printProgram(out io.Writer, program domain.LoanProgram, p domain.ProgramPolicy) {
	front := "none"
	if p.DTI.HasFrontCap() {
		front = fmt.Sprintf("%g%%", p.DTI.FrontPercent)
	}
	fmt.Fprintf(out, "\n%s: %s\n", program, p.Description)
	fmt.Fprintf(out, "  DTI front %s, back %g%%\n", front, p.DTI.BackPercent)
	fmt.Fprintf(out, "  Upfront MI %g%%", p.MI.UpfrontPercent)
	if p.MI.ExemptAtOrBelowLTV > 0 {
		fmt.Fprintf(out, ", no monthly MI at or below %g%% LTV", p.MI.ExemptAtOrBelowLTV)
	}
	fmt.Fprintln(out)

	if len(p.MI.Rates) == 0 {
		fmt.Fprintln(out, "  No monthly MI")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  LTV\tCredit\tTerm\tAnnual %")
	for _, r := range p.MI.Rates {
		term := "any"
		if r.MaxTermYears > 0 {
			term = fmt.Sprintf("<= %dy", r.MaxTermYears)
		}
		fmt.Fprintf(tw, "  %g-%g\t%d-%d\t%s\t%.2f\n", r.MinLTV, r.MaxLTV, r.MinCredit, r.MaxCredit, term, r.AnnualPercent)
	}
	_ = tw.Flush()
}

func newLeadsCmd(policyPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "leads <publicId>",
		Short: "List the lead submissions recorded for a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*policyPath)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			store, err := repository.Open(cfg.Storage.Driver, cfg.Storage.DSN)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer store.Close()

			records, err := store.LeadsForListing(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintf(out, "No leads for %s\n", args[0])
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Submitted\tTenant\tEmail\tBudget\tStatus")
			for _, rec := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s (%d)\n",
					humanize.Time(rec.SubmittedAt), rec.Lead.TenantName, rec.Lead.TenantEmail,
					money(rec.Lead.MonthlyBudget), rec.Status, rec.StatusCode)
			}
			return tw.Flush()
		},
	}
}
