package driver

var IndexQueries = []string{
	"CREATE INDEX ON :Document(id);",
	"CREATE INDEX ON :Entity(id);",
	"CREATE INDEX ON :Document(session_id);",
	"CREATE INDEX ON :Entity(session_id);",
}

const (
	ClearSessionQuery = `
		MATCH (n {session_id: $session_id})
		DETACH DELETE n
	`

	SaveDocumentNodesQuery = `
		UNWIND $nodes AS node
		MERGE (d:Document {id: node.id, session_id: $session_id})
		SET d.name = node.name,
			d.community = node.community
	`

	SaveEntityNodesQuery = `
		UNWIND $nodes AS node
		MERGE (e:Entity {id: node.id, session_id: $session_id})
		SET e.name = node.name,
			e.category = node.category,
			e.context = node.context,
			e.source_doc_ids = node.source_doc_ids,
			e.community = node.community
	`

	SaveMentionEdgesQuery = `
		UNWIND $links AS link
		MATCH (d:Document {id: link.source, session_id: $session_id})
		MATCH (e:Entity {id: link.target, session_id: $session_id})
		MERGE (d)-[m:MENTIONS]->(e)
		SET m.weight = link.value
	`

	CountSessionNodesQuery = `
		MATCH (n {session_id: $session_id})
		RETURN count(n) AS count
	`
)
