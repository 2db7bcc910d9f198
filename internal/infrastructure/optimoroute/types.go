package optimoroute

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/fieldops/backend/internal/domain/routing"
)

// API paths relative to the configured base URL
const (
	pathSearchOrders      = "/search_orders"
	pathCompletionDetails = "/get_completion_details"
)

// maxCompletionBatch is the largest number of orders get_completion_details accepts per call
const maxCompletionBatch = 500

// OrderRef identifies an order by its number
type OrderRef struct {
	OrderNo string `json:"orderNo"`
}

// DateRange is an inclusive date range in YYYY-MM-DD
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SearchOrdersRequest is the search_orders body
type SearchOrdersRequest struct {
	Orders                     []OrderRef `json:"orders,omitempty"`
	DateRange                  *DateRange `json:"dateRange,omitempty"`
	AfterTag                   string     `json:"after_tag,omitempty"`
	IncludeOrderData           bool       `json:"includeOrderData"`
	IncludeScheduleInformation bool       `json:"includeScheduleInformation"`
}

// CompletionDetailsRequest is the get_completion_details body.
// The dashboard lookup sends OrderID; bulk fetches send Orders.
type CompletionDetailsRequest struct {
	OrderID string     `json:"orderId,omitempty"`
	Orders  []OrderRef `json:"orders,omitempty"`
}

func orderRefs(orderNos []string) []OrderRef {
	refs := make([]OrderRef, 0, len(orderNos))
	for _, no := range orderNos {
		refs = append(refs, OrderRef{OrderNo: no})
	}
	return refs
}

// apiError extracts the failure reported in a response body with success=false.
// Returns an empty string when the body reports success or carries no flag.
func apiError(body []byte) string {
	res := gjson.GetManyBytes(body, "success", "code", "message")
	if !res[0].Exists() || res[0].Bool() {
		return ""
	}
	switch {
	case res[2].String() != "":
		return res[2].String()
	case res[1].String() != "":
		return res[1].String()
	default:
		return "request unsuccessful"
	}
}

// parseSearchPage maps a search_orders body to a page of orders
func parseSearchPage(body []byte) routing.SearchPage {
	page := routing.SearchPage{
		Orders:   make([]routing.Order, 0),
		AfterTag: gjson.GetBytes(body, "after_tag").String(),
	}

	gjson.GetBytes(body, "orders").ForEach(func(_, item gjson.Result) bool {
		data := item.Get("data")
		order := routing.Order{
			ID:       item.Get("id").String(),
			OrderNo:  firstString(data.Get("orderNo"), item.Get("orderNo")),
			Date:     data.Get("date").String(),
			Type:     data.Get("type").String(),
			Duration: int(data.Get("duration").Int()),
			Notes:    data.Get("notes").String(),
			Location: routing.Location{
				LocationNo:   data.Get("location.locationNo").String(),
				LocationName: data.Get("location.locationName").String(),
				Address:      data.Get("location.address").String(),
				Latitude:     data.Get("location.latitude").Float(),
				Longitude:    data.Get("location.longitude").Float(),
			},
		}
		if sched := item.Get("scheduleInformation"); sched.IsObject() {
			order.Schedule = &routing.ScheduleInformation{
				DriverName:  sched.Get("driverName").String(),
				DriverID:    sched.Get("driverExternalId").String(),
				VehicleName: sched.Get("vehicleLabel").String(),
				StopNumber:  int(sched.Get("stopNumber").Int()),
				ScheduledAt: firstString(sched.Get("scheduledAtDt"), sched.Get("scheduledAt")),
				Status:      sched.Get("status").String(),
			}
		}
		page.Orders = append(page.Orders, order)
		return true
	})

	return page
}

// parseCompletionDetails maps a get_completion_details body to details keyed by order number.
// Entries with success=false are skipped.
func parseCompletionDetails(body []byte, into map[string]*routing.CompletionDetails) {
	gjson.GetBytes(body, "orders").ForEach(func(_, item gjson.Result) bool {
		if ok := item.Get("success"); ok.Exists() && !ok.Bool() {
			return true
		}
		orderNo := item.Get("orderNo").String()
		if orderNo == "" {
			return true
		}
		data := item.Get("data")
		details := &routing.CompletionDetails{
			Status:    data.Get("status").String(),
			StartTime: firstString(data.Get("startTime.utcTime"), data.Get("startTime")),
			EndTime:   firstString(data.Get("endTime.utcTime"), data.Get("endTime")),
		}
		if form := data.Get("form"); form.IsObject() {
			details.Form = json.RawMessage(form.Raw)
			for _, u := range form.Get("images.#.url").Array() {
				if s := u.String(); s != "" {
					details.ImageURLs = append(details.ImageURLs, s)
				}
			}
		}
		into[orderNo] = details
		return true
	})
}

func firstString(values ...gjson.Result) string {
	for _, v := range values {
		if v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
