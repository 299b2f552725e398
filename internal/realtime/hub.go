package realtime

import "log"

// Hub manages WebSocket clients and routes messages by workflowID.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// workflowID -> set of subscribed clients
	subscriptions map[uint]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	subscribe  chan subscribeMsg
	broadcast  chan broadcastMsg
}

type subscribeMsg struct {
	client     *Client
	workflowID uint
}

type broadcastMsg struct {
	workflowID uint
	payload    []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		subscriptions: make(map[uint]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		subscribe:     make(chan subscribeMsg),
		broadcast:     make(chan broadcastMsg, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("client registered (total: %d)", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.evict(client)
				log.Printf("client unregistered (total: %d)", len(h.clients))
			}

		case msg := <-h.subscribe:
			if _, ok := h.subscriptions[msg.workflowID]; !ok {
				h.subscriptions[msg.workflowID] = make(map[*Client]bool)
			}
			h.subscriptions[msg.workflowID][msg.client] = true
			log.Printf("client subscribed to workflow %d (subscribers: %d)", msg.workflowID, len(h.subscriptions[msg.workflowID]))

		case msg := <-h.broadcast:
			if subs, ok := h.subscriptions[msg.workflowID]; ok {
				for client := range subs {
					select {
					case client.send <- msg.payload:
					default:
						// Client buffer full, drop it
						h.evict(client)
					}
				}
			}
		}
	}
}

// evict removes a client from the hub and from every subscription set
// before closing its channel. A client subscribed to several workflows
// must disappear from all of them; a stale entry would make a later
// broadcast send on the closed channel.
func (h *Hub) evict(client *Client) {
	delete(h.clients, client)
	for workflowID, subs := range h.subscriptions {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, workflowID)
		}
	}
	close(client.send)
}
