// Command vaultctl is the interactive client. It submits deposits and
// withdrawals to vaultd as the configured caller identity and reads state
// back through the read proxy. Because the engine commits atomically but the
// caller observes it over a network, a deposit is reported twice: once when
// submitted, once when the proxy confirms it is visible.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/sheikh-saqib/custodial-payment-vault/internal/config"
)

const confirmTimeout = 15 * time.Second

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadCtl()
	if err != nil {
		fatal(err)
	}
	if cfg.VaultAddress == "" {
		fatal(fmt.Errorf("VAULT_ADDRESS is not set; run the deploy tool first"))
	}
	if cfg.CallerAddress == "" {
		fatal(fmt.Errorf("CALLER_ADDRESS is not set; obtain an identity from your signing agent"))
	}

	c := client{cfg: cfg, http: &http.Client{Timeout: 10 * time.Second}}

	switch os.Args[1] {
	case "deposit":
		err = c.deposit(os.Args[2:])
	case "withdraw":
		err = c.withdraw(os.Args[2:])
	case "withdraw-all":
		err = c.withdrawAll()
	case "balance":
		err = c.balance()
	case "history":
		err = c.history(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: vaultctl <command> [args]

commands:
  deposit <amount>   transfer value into the vault and wait for confirmation
  withdraw <amount>  withdraw value to the owner address (owner only)
  withdraw-all       withdraw the whole held balance (owner only)
  balance            show the current custody balance
  history [offset [limit]]
                     list recorded payments; older pages via offset`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "vaultctl:", err)
	os.Exit(1)
}

type client struct {
	cfg  config.Ctl
	http *http.Client
}

type balanceRecord struct {
	Balance uint64 `json:"balance"`
	Display string `json:"display"`
}

func (c *client) deposit(args []string) error {
	amount, err := parseAmount(args)
	if err != nil {
		return err
	}

	before, err := c.proxyEntryCount()
	if err != nil {
		return fmt.Errorf("read proxy before submitting: %w", err)
	}

	var result struct {
		Index int `json:"index"`
	}
	if err := c.post(fmt.Sprintf("/vaults/%s/deposit", c.cfg.VaultAddress),
		map[string]uint64{"amount": amount}, &result); err != nil {
		return err
	}
	fmt.Printf("submitted: deposit of %d accepted as entry %d\n", amount, result.Index)

	// The engine already holds the value; "confirmed" means the proxy's view
	// of the log has caught up, which is what the operator can actually see.
	deadline := time.Now().Add(confirmTimeout)
	for time.Now().Before(deadline) {
		count, err := c.proxyEntryCount()
		if err == nil && count > before {
			record, err := c.proxyBalance()
			if err != nil {
				return err
			}
			fmt.Printf("confirmed: %d entries on record, balance %s\n", count, record.Display)
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("deposit submitted but not yet visible via the proxy after %s", confirmTimeout)
}

func (c *client) withdraw(args []string) error {
	amount, err := parseAmount(args)
	if err != nil {
		return err
	}

	var result struct {
		Amount uint64 `json:"amount"`
	}
	if err := c.post(fmt.Sprintf("/vaults/%s/withdraw", c.cfg.VaultAddress),
		map[string]uint64{"amount": amount}, &result); err != nil {
		return err
	}
	fmt.Printf("withdrew %d\n", result.Amount)
	return nil
}

func (c *client) withdrawAll() error {
	var result struct {
		Amount uint64 `json:"amount"`
	}
	if err := c.post(fmt.Sprintf("/vaults/%s/withdraw-all", c.cfg.VaultAddress), nil, &result); err != nil {
		return err
	}
	fmt.Printf("withdrew %d\n", result.Amount)
	return nil
}

func (c *client) balance() error {
	record, err := c.proxyBalance()
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d minor units)\n", record.Display, record.Balance)
	return nil
}

// history lists one page of the payment log. A zero limit leaves the page
// size to the proxy's configured default.
func (c *client) history(args []string) error {
	offset, limit, err := parseWindow(args)
	if err != nil {
		return err
	}

	var page struct {
		Payments []struct {
			Sender        string `json:"sender"`
			AmountDisplay string `json:"amount_display"`
			Date          string `json:"date"`
		} `json:"payments"`
		Total int `json:"total"`
	}
	if err := c.getProxy(fmt.Sprintf("/payments?offset=%d&limit=%d", offset, limit), &page); err != nil {
		return err
	}

	for i, p := range page.Payments {
		fmt.Printf("%4d  %-24s  %s  %s\n", offset+i, p.Sender, p.AmountDisplay, p.Date)
	}
	fmt.Printf("%d payment(s) on record\n", page.Total)
	return nil
}

func (c *client) proxyEntryCount() (int, error) {
	var health struct {
		Entries int `json:"entries"`
	}
	err := c.getProxy("/healthz", &health)
	return health.Entries, err
}

func (c *client) proxyBalance() (balanceRecord, error) {
	var record balanceRecord
	err := c.getProxy("/balance", &record)
	return record, err
}

func (c *client) post(path string, body any, dst any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(http.MethodPost, c.cfg.VaultdURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("X-Caller-Address", c.cfg.CallerAddress)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if payload.Error == "" {
			payload.Error = resp.Status
		}
		return fmt.Errorf("vaultd: %s", payload.Error)
	}

	if dst == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func (c *client) getProxy(path string, dst any) error {
	resp, err := c.http.Get(c.cfg.ProxyURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if payload.Error == "" {
			payload.Error = resp.Status
		}
		return fmt.Errorf("readproxy: %s", payload.Error)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func parseWindow(args []string) (offset, limit int, err error) {
	if len(args) > 2 {
		return 0, 0, fmt.Errorf("usage: history [offset [limit]]")
	}
	if len(args) >= 1 {
		offset, err = strconv.Atoi(args[0])
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset %q", args[0])
		}
	}
	if len(args) == 2 {
		limit, err = strconv.Atoi(args[1])
		if err != nil || limit < 1 {
			return 0, 0, fmt.Errorf("invalid limit %q", args[1])
		}
	}
	return offset, limit, nil
}

func parseAmount(args []string) (uint64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("an amount in minor units is required")
	}
	amount, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", args[0], err)
	}
	return amount, nil
}
