package board

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/messhub/mess-app/models"
	"github.com/messhub/mess-app/utils"
)

// Event types pushed to mess dashboards.
const (
	EventSelectionOpened    = "selection_opened"
	EventSelectionUpdated   = "selection_updated"
	EventSelectionWithdrawn = "selection_withdrawn"
	EventMealUpdate         = "meal_update"
	EventBillsGenerated     = "bills_generated"
	EventBillSettled        = "bill_settled"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	role   string
	messID uint
}

// Hub holds every connected dashboard (staff, secretary, cashier, admin) per
// mess and broadcasts domain events to them.
type Hub struct {
	clients map[*websocket.Conn]client
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]client),
}

func RegisterClient(conn *websocket.Conn, role string, messID uint) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = client{role: role, messID: messID}
}

func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastSelectionChange pushes the new head count for a meal after a user
// opens, updates or withdraws a selection.
func BroadcastSelectionChange(event string, messID, mealID uint, totalUsers int64) {
	broadcast(messID, Message{
		Event: event,
		Data: map[string]interface{}{
			"meal_id":     mealID,
			"total_users": totalUsers,
		},
	})
}

func BroadcastMealUpdate(meal models.Meal) {
	broadcast(meal.MessID, Message{
		Event: EventMealUpdate,
		Data:  meal,
	})
}

func BroadcastBillsGenerated(messID uint, count int) {
	broadcast(messID, Message{
		Event: EventBillsGenerated,
		Data: map[string]interface{}{
			"bills": count,
		},
	})
}

func BroadcastBillSettled(bill models.Bill) {
	broadcast(bill.MessID, Message{
		Event: EventBillSettled,
		Data:  bill,
	})
}

func broadcast(messID uint, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("board: marshal %s event: %v", msg.Event, err)
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	for conn, cl := range hub.clients {
		if cl.messID != messID && cl.role != models.RoleAdmin {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
