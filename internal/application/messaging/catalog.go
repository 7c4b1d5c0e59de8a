package messaging

import "strings"

// MessageKey identifica una plantilla del catálogo de mensajes salientes.
// El texto va en el idioma del protocolo de campo (inglés); los parámetros se
// interpolan con tokens {nombre}.
type MessageKey string

const (
	MsgRegistrationRequired MessageKey = "registration_required"
	MsgUnrecognized         MessageKey = "unrecognized"
	MsgHelp                 MessageKey = "help"

	MsgRegisterHelp    MessageKey = "register_help"
	MsgRegisterConfirm MessageKey = "register_confirm"

	MsgSohHelp    MessageKey = "soh_help"
	MsgSohConfirm MessageKey = "soh_confirm"
	MsgEoHelp     MessageKey = "eo_help"
	MsgEoConfirm  MessageKey = "eo_confirm"

	MsgReceiptHelp    MessageKey = "receipt_help"
	MsgReceiptConfirm MessageKey = "receipt_confirm"

	MsgStockoutHelp MessageKey = "stockout_help"

	MsgNotHelp             MessageKey = "not_help"
	MsgNotDeliveredConfirm MessageKey = "not_delivered_confirm"
	MsgNotSubmittedConfirm MessageKey = "not_submitted_confirm"

	// Cierre desfavorable: mensajes al que responde, al HSA y a los supervisores.
	MsgHFUnableRestockBoth      MessageKey = "hf_unable_restock_both"
	MsgHFUnableRestockEmergency MessageKey = "hf_unable_restock_emergency"
	MsgHFUnableRestockAnything  MessageKey = "hf_unable_restock_anything"
	MsgHSAUnableRestockEO       MessageKey = "hsa_unable_restock_eo"
	MsgHSAUnableRestockAnything MessageKey = "hsa_unable_restock_anything"
	MsgDistrictStockout         MessageKey = "district_unable_restock_stockout"
	MsgDistrictEmergency        MessageKey = "district_unable_restock_eo"
	MsgDistrictNormal           MessageKey = "district_unable_restock_normal"

	MsgUnknownProduct     MessageKey = "unknown_product"
	MsgUnknownHSA         MessageKey = "unknown_hsa"
	MsgUnknownSupplyPoint MessageKey = "unknown_supply_point"
	MsgNoPendingOrders    MessageKey = "no_pending_orders"
)

var catalog = map[MessageKey]string{
	MsgRegistrationRequired: "Sorry, you have to be registered to do that. Register by sending: reg <name> <supply point code>",
	MsgUnrecognized:         "Sorry, we did not understand your message. Send 'help' for the list of commands.",
	MsgHelp:                 "Commands: soh <code> <qty>..., eo <code> <qty>..., rec <code> <qty>..., os <hsa id>, not del|sub, reg <name> <code>",

	MsgRegisterHelp:    "To register, send: reg <name> <supply point code>",
	MsgRegisterConfirm: "Thank you {name}, you are now registered at {supply_point}.",

	MsgSohHelp:    "To report stock on hand, send: soh <product code> <quantity> ...",
	MsgSohConfirm: "Thank you {name}. Your stock report was received. Requested: {products}.",
	MsgEoHelp:     "To place an emergency order, send: eo <product code> <quantity> ...",
	MsgEoConfirm:  "We have received your emergency order for: {products}.",

	MsgReceiptHelp:    "To confirm receipt, send: rec <product code> <quantity> ...",
	MsgReceiptConfirm: "Thank you, received amounts were recorded for: {products}.",

	MsgStockoutHelp: "To report that you cannot fill an order, send: os <hsa id>",

	MsgNotHelp:             "Send 'not del' if you did not receive your delivery, or 'not sub' if you did not submit your report.",
	MsgNotDeliveredConfirm: "We have recorded that you did not receive your delivery.",
	MsgNotSubmittedConfirm: "We have recorded that you did not submit your report.",

	MsgHFUnableRestockBoth:      "Thank you. We have recorded that you are unable to restock emergency and stocked-out products: {products}.",
	MsgHFUnableRestockEmergency: "Thank you. We have recorded that you are unable to restock emergency products: {products}.",
	MsgHFUnableRestockAnything:  "Thank you. We have recorded that you are unable to restock: {products}.",
	MsgHSAUnableRestockEO:       "Dear {hsa}, your facility is unable to resupply your emergency order for: {products}.",
	MsgHSAUnableRestockAnything: "Dear {hsa}, your facility is unable to resupply any of the products you requested.",
	MsgDistrictStockout:         "{contact} at {supply_point} is stocked out of and unable to resupply: {products}.",
	MsgDistrictEmergency:        "{contact} at {supply_point} is unable to resupply emergency orders for: {products}.",
	MsgDistrictNormal:           "{contact} at {supply_point} is unable to resupply: {products}.",

	MsgUnknownProduct:     "Sorry, we do not know the product code {product}.",
	MsgUnknownHSA:         "Sorry, we could not find an HSA with id {hsa}.",
	MsgUnknownSupplyPoint: "Sorry, we do not know the supply point code {code}.",
	MsgNoPendingOrders:    "There are no pending orders for {hsa}.",
}

// Render expande la plantilla de key reemplazando cada token {nombre} por su
// valor en params. Tokens sin valor quedan tal cual (visibles en QA).
func Render(key MessageKey, params map[string]string) string {
	text, ok := catalog[key]
	if !ok {
		return string(key)
	}
	for name, value := range params {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}
