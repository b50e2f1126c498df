package textview

import (
	"strings"

	"github.com/go-faster/errors"

	"github.com/example/storefront/internal/domain"
	"github.com/example/storefront/internal/events"
)

// ErrUnknownCommand is returned by Parse for input it cannot map to an intent.
var ErrUnknownCommand = errors.New("unknown command")

// Help lists the accepted commands.
const Help = `commands:
  show <id>        open product preview
  toggle <id>      add to / remove from basket (from preview)
  basket           open basket
  remove <id>      remove from basket
  checkout         start checkout
  payment card|cash
  address <text>
  next             submit order step
  email <text>
  phone <text>
  pay              submit order
  close            close the dialog
  quit`

// Parse maps a command line to the intent event a view would publish.
func Parse(line string) (events.Event, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(cmd) {
	case "show":
		if arg == "" {
			return nil, errors.Wrap(ErrUnknownCommand, "show needs a product id")
		}
		return events.ProductSelected{ID: arg}, nil
	case "toggle":
		if arg == "" {
			return nil, errors.Wrap(ErrUnknownCommand, "toggle needs a product id")
		}
		return events.BasketItemToggled{ID: arg}, nil
	case "basket":
		return events.BasketOpenRequested{}, nil
	case "remove":
		if arg == "" {
			return nil, errors.Wrap(ErrUnknownCommand, "remove needs a product id")
		}
		return events.BasketItemRemoved{ID: arg}, nil
	case "checkout":
		return events.CheckoutRequested{}, nil
	case "payment":
		return events.BuyerFieldEdited{Field: domain.FieldPayment, Value: arg}, nil
	case "address":
		return events.BuyerFieldEdited{Field: domain.FieldAddress, Value: arg}, nil
	case "email":
		return events.BuyerFieldEdited{Field: domain.FieldEmail, Value: arg}, nil
	case "phone":
		return events.BuyerFieldEdited{Field: domain.FieldPhone, Value: arg}, nil
	case "next":
		return events.OrderStepSubmitted{}, nil
	case "pay":
		return events.ContactsStepSubmitted{}, nil
	case "close":
		return events.ModalCloseRequested{}, nil
	}
	return nil, errors.Wrapf(ErrUnknownCommand, "%q", cmd)
}
