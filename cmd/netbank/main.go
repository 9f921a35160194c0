// Command netbank is an interactive terminal client for the netbank
// service: log in, watch your balance and transactions, send money and
// manage saved recipients. The session logs itself out after five
// minutes without input.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"netbank-client/internal/client"
	"netbank-client/internal/config"
	"netbank-client/internal/domain"
	"netbank-client/internal/format"
	"netbank-client/internal/profile"
	"netbank-client/internal/session"
	"netbank-client/internal/syncer"
	"netbank-client/internal/transfer"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "netbank"})
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "err", err)
	}

	cfg := config.Load(logger)
	api, err := client.New(cfg.APIURL, cfg.HTTPTimeout)
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	store, err := profile.NewStore()
	if err != nil {
		logger.Warn("profile store unavailable", "err", err)
	}

	account := authenticate(api, store, logger)
	if account == nil {
		return
	}

	sy := syncer.New(api, cfg.SyncInterval)
	controller := session.New(api, sy, cfg.SessionTimeout)
	notices := session.NewNotices(cfg.NoticeTTL)

	sess, err := controller.Activate(*account)
	if err != nil {
		logger.Fatal("could not start session", "err", err)
	}

	app := &app{
		controller: controller,
		sess:       sess,
		syncer:     sy,
		notices:    notices,
		pipeline:   transfer.NewPipeline(api, sy, notices),
		recipients: transfer.NewRecipients(api, sy, notices),
		form:       transfer.NewForm(),
		log:        logger,
	}
	app.run()

	notices.Stop()
	fmt.Println("Goodbye!")
}

// authenticate walks the login/register flow until the service hands back
// an account, or the user bails out.
func authenticate(api *client.Client, store *profile.Store, logger *log.Logger) *domain.Account {
	for {
		var mode string
		modeForm := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("netbank").
				Options(
					huh.NewOption("Log in", "login"),
					huh.NewOption("Register", "register"),
					huh.NewOption("Quit", "quit"),
				).
				Value(&mode),
		))
		if err := modeForm.Run(); err != nil || mode == "quit" {
			return nil
		}

		var username, password, firstName, lastName string
		if store != nil {
			username = store.Profile.LastUsername
		}

		fields := []huh.Field{
			huh.NewInput().Title("Username").Value(&username).Validate(required("username")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password).Validate(required("password")),
		}
		if mode == "register" {
			fields = append(fields,
				huh.NewInput().Title("First name").Value(&firstName).Validate(required("first name")),
				huh.NewInput().Title("Last name").Value(&lastName).Validate(required("last name")),
			)
		}
		if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
			return nil
		}

		var account *domain.Account
		var err error
		if mode == "register" {
			account, err = api.Register(context.Background(), username, password, firstName, lastName)
		} else {
			account, err = api.Login(context.Background(), username, password)
		}
		if err != nil {
			logger.Error("authentication failed", "err", err)
			fmt.Println(dangerStyle.Render("Authentication failed, please try again."))
			continue
		}

		if store != nil {
			store.Profile.LastUsername = username
			if err := store.Save(); err != nil {
				logger.Warn("could not save profile", "err", err)
			}
		}
		return account
	}
}

type app struct {
	controller *session.Controller
	sess       *session.Session
	syncer     *syncer.Syncer
	notices    *session.Notices
	pipeline   *transfer.Pipeline
	recipients *transfer.Recipients
	form       *transfer.Form
	log        *log.Logger
}

func (a *app) run() {
	for a.sess.Alive() {
		a.renderHeader()

		switch a.sess.ActiveView() {
		case session.ViewTransactions:
			a.renderTransactions()
		case session.ViewSavedRecipients:
			a.renderRecipients()
		}

		var choice string
		menu := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("What next?").
				Options(
					huh.NewOption("Transactions", "transactions"),
					huh.NewOption("Send money", "send"),
					huh.NewOption("Saved recipients", "recipients"),
					huh.NewOption("Delete a saved recipient", "delete-recipient"),
					huh.NewOption("Delete my account", "delete-account"),
					huh.NewOption("Log out", "logout"),
				).
				Value(&choice),
		))
		if err := menu.Run(); err != nil {
			a.controller.Logout()
			return
		}
		if !a.sess.Alive() {
			fmt.Println(dangerStyle.Render("You have been logged out due to inactivity."))
			return
		}
		a.controller.Touch()

		switch choice {
		case "transactions":
			a.sess.SetActiveView(session.ViewTransactions)
		case "send":
			a.sess.SetActiveView(session.ViewSendMoney)
			a.sendMoney()
		case "recipients":
			a.sess.SetActiveView(session.ViewSavedRecipients)
		case "delete-recipient":
			a.deleteRecipient()
		case "delete-account":
			a.deleteAccount()
		case "logout":
			a.controller.Logout()
			return
		}
	}
	fmt.Println(dangerStyle.Render("You have been logged out due to inactivity."))
}

func (a *app) renderHeader() {
	account, ok := a.syncer.Account()
	if !ok {
		account = a.sess.Account()
	}

	remaining := a.controller.Remaining()
	countdown := countdownStyle
	if remaining < 60 {
		countdown = countdownLowStyle
	}

	fmt.Println(titleStyle.Render("Welcome, " + account.DisplayName() + "!"))
	fmt.Println(ibanStyle.Render(format.FormatIBAN(account.IBAN)))
	fmt.Println(balanceStyle.Render(format.Amount(account.Balance)))
	fmt.Println(countdown.Render("Auto-logout: " + format.Countdown(remaining)))
	a.renderNotices()
}

func (a *app) renderTransactions() {
	ownIBAN := a.sess.Account().IBAN
	transactions := a.syncer.Transactions()
	if len(transactions) == 0 {
		fmt.Println(ibanStyle.Render("No transactions yet."))
		return
	}
	for _, tx := range transactions {
		amount := format.Amount(tx.Amount)
		style := incomingStyle
		sign := "+"
		if tx.Direction(ownIBAN) == domain.Out {
			style = outgoingStyle
			sign = "-"
		}
		fmt.Printf("%s  %s  %s  %s\n",
			format.Timestamp(tx.TransactionDate),
			style.Render(sign+amount),
			tx.Counterparty(ownIBAN),
			tx.Description,
		)
	}
}

func (a *app) renderRecipients() {
	recipients := a.syncer.Recipients()
	if len(recipients) == 0 {
		fmt.Println(ibanStyle.Render("No saved recipients."))
		return
	}
	for _, r := range recipients {
		fmt.Printf("%s  %s\n", r.DisplayName(), ibanStyle.Render(format.FormatIBAN(r.IBAN)))
	}
}

// sendMoney walks the transfer form: optional saved-recipient selection,
// manual fields behind the IBAN and amount validators, then submission
// through the pipeline.
func (a *app) sendMoney() {
	saved := a.syncer.Recipients()
	if len(saved) > 0 {
		var selectedID string
		options := []huh.Option[string]{huh.NewOption("-- Enter recipient manually --", "")}
		for _, r := range saved {
			options = append(options, huh.NewOption(r.DisplayName()+" - "+format.FormatIBAN(r.IBAN), r.ID))
		}
		pick := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().Title("Recipient").Options(options...).Value(&selectedID),
		))
		if err := pick.Run(); err != nil {
			return
		}
		a.controller.Touch()
		if selectedID == "" {
			a.form.ClearSelection()
		} else {
			for _, r := range saved {
				if r.ID == selectedID {
					a.form.SelectRecipient(r)
				}
			}
		}
	}

	values := a.form.Values()
	iban, firstName, lastName := values.IBAN, values.FirstName, values.LastName
	var amount, description string

	entry := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Recipient IBAN").Placeholder("DE89 3704 0044 0532 0130 00").Value(&iban).
			Validate(func(v string) error {
				if !format.ValidIBAN(v) {
					return errors.New("Invalid IBAN format")
				}
				return nil
			}),
		huh.NewInput().Title("Recipient first name").Value(&firstName).Validate(required("first name")),
		huh.NewInput().Title("Recipient last name").Value(&lastName).Validate(required("last name")),
		huh.NewInput().Title("Amount (€)").Placeholder("0.00").Value(&amount).
			Validate(func(v string) error {
				if _, err := format.ParseAmount(v); err != nil {
					return errors.New("Enter digits with at most two decimals")
				}
				return nil
			}),
		huh.NewInput().Title("Description (optional)").Value(&description),
	))
	if err := entry.Run(); err != nil {
		return
	}
	a.controller.Touch()

	// Manual edits detach the saved selection; unchanged fields keep it.
	if iban != values.IBAN {
		a.form.SetIBAN(iban)
	}
	if firstName != values.FirstName {
		a.form.SetFirstName(firstName)
	}
	if lastName != values.LastName {
		a.form.SetLastName(lastName)
	}
	a.form.SetAmount(amount)
	a.form.SetDescription(description)

	input := a.form.Values()
	if err := a.pipeline.Submit(context.Background(), a.sess, input); err != nil {
		a.renderNotices()
		return
	}
	a.renderNotices()

	if a.form.OfferSave(a.syncer.Recipients()) {
		var save bool
		confirm := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().Title("Save " + input.FirstName + " " + input.LastName + " as a recipient?").Value(&save),
		))
		if err := confirm.Run(); err == nil && save {
			a.controller.Touch()
			if err := a.recipients.Save(context.Background(), a.sess, input.IBAN, input.FirstName, input.LastName); err != nil {
				a.log.Warn("recipient not saved", "err", err)
			}
			a.renderNotices()
		}
	}
	a.form.Reset()
}

func (a *app) deleteRecipient() {
	recipients := a.syncer.Recipients()
	if len(recipients) == 0 {
		fmt.Println(ibanStyle.Render("No saved recipients to delete."))
		return
	}
	var iban string
	options := make([]huh.Option[string], 0, len(recipients)+1)
	for _, r := range recipients {
		options = append(options, huh.NewOption(r.DisplayName()+" - "+format.FormatIBAN(r.IBAN), r.IBAN))
	}
	options = append(options, huh.NewOption("Cancel", ""))
	pick := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Delete which recipient?").Options(options...).Value(&iban),
	))
	if err := pick.Run(); err != nil || iban == "" {
		return
	}
	a.controller.Touch()
	if err := a.recipients.Delete(context.Background(), a.sess, iban); err != nil {
		a.log.Warn("recipient not deleted", "err", err)
	}
	a.renderNotices()
}

func (a *app) deleteAccount() {
	var confirmed bool
	confirm := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Delete your account? This cannot be undone.").
			Value(&confirmed),
	))
	if err := confirm.Run(); err != nil || !confirmed {
		return
	}
	if err := a.controller.DeleteAccount(context.Background()); err != nil {
		a.log.Error("account deletion failed", "err", err)
		fmt.Println(dangerStyle.Render("Could not delete your account."))
		return
	}
	fmt.Println(successStyle.Render("Account deleted."))
}

func (a *app) renderNotices() {
	errMsg, warning, success := a.notices.Snapshot()
	if errMsg != "" {
		fmt.Println(dangerStyle.Render(errMsg))
	}
	if warning != "" {
		fmt.Println(warningStyle.Render(warning))
	}
	if success != "" {
		fmt.Println(successStyle.Render(success))
	}
}

func required(name string) func(string) error {
	return func(v string) error {
		if v == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}
